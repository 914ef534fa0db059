package notify

import (
	"encoding/json"
	"testing"

	"talim/database"
	"talim/models"
	"talim/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDispatcher(t *testing.T) (*Dispatcher, *gorm.DB, *realtime.Hub) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	hub := realtime.NewHub()
	return NewDispatcher(db, hub), db, hub
}

func drain(t *testing.T, c *realtime.Client) realtime.Envelope {
	t.Helper()
	select {
	case raw := <-c.Messages():
		var env realtime.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected a buffered event")
		return realtime.Envelope{}
	}
}

func TestDispatchPersistsRecord(t *testing.T) {
	dispatcher, db, _ := testDispatcher(t)

	userID := uint(3)
	created := dispatcher.Dispatch(&userID, models.NotificationWelcome,
		"স্বাগতম!", "hello", map[string]interface{}{"k": "v"}, Channels{Email: true})
	require.NotNil(t, created)

	var stored models.Notification
	require.NoError(t, db.First(&stored, created.ID).Error)
	require.NotNil(t, stored.RecipientID)
	assert.EqualValues(t, 3, *stored.RecipientID)
	assert.Equal(t, models.NotificationWelcome, stored.Type)
	assert.True(t, stored.ChannelEmail)
	assert.False(t, stored.IsRead)
	assert.JSONEq(t, `{"k":"v"}`, string(stored.Data))
}

func TestDispatchNilRecipientIsAdminBroadcast(t *testing.T) {
	dispatcher, db, _ := testDispatcher(t)

	created := dispatcher.Dispatch(nil, models.NotificationNewPayment, "t", "m", nil, Channels{})
	require.NotNil(t, created)

	var stored models.Notification
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.Nil(t, stored.RecipientID)
}

func TestNotifyNewPaymentReachesAdminRoom(t *testing.T) {
	dispatcher, db, hub := testDispatcher(t)

	admin := hub.Register()
	hub.Join(admin, realtime.AdminRoom)

	payment := &models.Payment{Name: "Karim", Email: "karim@example.com", CourseID: 5}
	payment.ID = 11
	dispatcher.NotifyNewPayment(payment)

	env := drain(t, admin)
	assert.Equal(t, "newPayment", env.Event)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("type = ? AND recipient_id IS NULL", models.NotificationNewPayment).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBroadcastAccessUpdateTargetsBothRooms(t *testing.T) {
	dispatcher, _, hub := testDispatcher(t)

	admin := hub.Register()
	hub.Join(admin, realtime.AdminRoom)
	payer := hub.Register()
	hub.Join(payer, realtime.UserRoom("karim@example.com"))
	bystander := hub.Register()
	hub.Join(bystander, realtime.UserRoom("other@example.com"))

	payment := &models.Payment{
		Name: "Karim", Email: "karim@example.com",
		CourseID: 5, CourseTitle: "Tajweed Basics",
	}
	payment.ID = 11
	dispatcher.BroadcastAccessUpdate(payment)

	for _, c := range []*realtime.Client{admin, payer} {
		env := drain(t, c)
		assert.Equal(t, "courseAccessUpdated", env.Event)

		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "karim@example.com", data["email"])
		assert.Equal(t, "Tajweed Basics", data["courseName"])
	}

	select {
	case raw := <-bystander.Messages():
		t.Fatalf("bystander received %s", raw)
	default:
	}
}

func TestRecipientLookupByEmail(t *testing.T) {
	dispatcher, db, _ := testDispatcher(t)

	user := &models.User{Name: "Karim", Email: "karim@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	id := dispatcher.recipientFor("karim@example.com")
	require.NotNil(t, id)
	assert.Equal(t, user.ID, *id)

	assert.Nil(t, dispatcher.recipientFor("ghost@example.com"))
}
