package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"talim/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: তালিমুল ইসলাম একাডেমি <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// HTML wrapper shared by every outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f8fafc; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
			.header { background-color: #2563eb; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #374151; line-height: 1.6; }
			.content h2 { color: #059669; margin-top: 0; text-align: center; }
			.footer { background-color: #f8fafc; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border-top: 1px solid #e5e7eb; }
			.btn { display: inline-block; padding: 15px 30px; background-color: #059669; color: #FFFFFF; text-decoration: none; border-radius: 8px; font-weight: 600; margin-top: 20px; }
			.info-box { background: #f0f9ff; padding: 20px; border-radius: 8px; border-left: 4px solid #2563eb; margin: 20px 0; }
			.otp-code { font-size: 32px; font-weight: bold; color: #059669; letter-spacing: 4px; margin: 20px 0; text-align: center; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>তালিমুল ইসলাম একাডেমি</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; ২০২৬ তালিমুল ইসলাম একাডেমি। সর্বস্বত্ব সংরক্ষিত।
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendOTPEmail delivers the verification code
func SendOTPEmail(code, email string) error {
	subject := "তালিমুল ইসলাম একাডেমি - OTP কোড"
	body := fmt.Sprintf(`
		<div class="otp-code">%s</div>
		<p style="text-align: center; color: #64748b;">এই কোডটি ৫ মিনিটের জন্য বৈধ</p>
	`, code)

	return SendEmail([]string{email}, subject, getEmailTemplate("আপনার OTP কোড", body))
}

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(email, name string) {
	subject := "তালিমুল ইসলাম একাডেমিতে স্বাগতম"
	body := fmt.Sprintf(`
		<p>প্রিয় <strong>%s</strong>,</p>
		<p>তালিমুল ইসলাম একাডেমিতে আপনাকে স্বাগতম! আপনার অ্যাকাউন্ট সফলভাবে তৈরি হয়েছে।</p>
		<p>এখন আপনি আমাদের কোর্সগুলো ঘুরে দেখতে পারেন এবং আপনার শিক্ষা যাত্রা শুরু করতে পারেন।</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("স্বাগতম!", body))
}

// SendCourseAccessEmail congratulates the payer after an approval
func SendCourseAccessEmail(email, name, courseName string) error {
	subject := "তালিমুল ইসলাম একাডেমি - কোর্স অনুমোদিত হয়েছে"
	courseSlug := strings.ToLower(strings.ReplaceAll(courseName, " ", "-"))
	body := fmt.Sprintf(`
		<p>প্রিয় <strong>%s</strong>,</p>
		<p>আপনার পেমেন্ট সফলভাবে অনুমোদিত হয়েছে এবং <strong style="color: #2563eb;">"%s"</strong> কোর্সে আপনার অ্যাক্সেস চালু করা হয়েছে।</p>
		<div class="info-box">
			<p style="margin: 0; color: #1e40af; font-weight: 500;">এখন আপনি পাবেন:</p>
			<ul style="color: #374151; margin: 10px 0;">
				<li>সমস্ত ভিডিও লেকচার</li>
				<li>পিডিএফ নোট ও বই</li>
				<li>অনুশীলনী ও কুইজ</li>
				<li>সার্টিফিকেট (কোর্স সম্পূর্ণ করার পর)</li>
			</ul>
		</div>
		<div style="text-align: center;">
			<a href="%s/courses/%s" class="btn">কোর্স শুরু করুন</a>
		</div>
	`, name, courseName, config.AppConfig.FrontendURL, courseSlug)

	return SendEmail([]string{email}, subject, getEmailTemplate("🎉 অভিনন্দন!", body))
}

// SendPaymentRejectedEmail tells the payer their payment was declined
func SendPaymentRejectedEmail(email, name, courseName, reason string) error {
	subject := "তালিমুল ইসলাম একাডেমি - পেমেন্ট প্রত্যাখ্যাত"
	reasonBlock := ""
	if reason != "" {
		reasonBlock = fmt.Sprintf(`<div class="info-box"><p style="margin: 0;"><strong>কারণ:</strong> %s</p></div>`, reason)
	}
	body := fmt.Sprintf(`
		<p>প্রিয় <strong>%s</strong>,</p>
		<p>দুঃখিত, <strong>"%s"</strong> কোর্সের জন্য আপনার জমা দেওয়া পেমেন্টটি অনুমোদন করা যায়নি।</p>
		%s
		<p>অনুগ্রহ করে তথ্যগুলো যাচাই করে আবার চেষ্টা করুন, অথবা আমাদের সাথে যোগাযোগ করুন।</p>
	`, name, courseName, reasonBlock)

	return SendEmail([]string{email}, subject, getEmailTemplate("পেমেন্ট প্রত্যাখ্যাত", body))
}
