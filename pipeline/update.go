package pipeline

import (
	"strings"

	"github.com/goliatone/go-txcache/store"
)

// User is the sender of an update.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsPremium bool   `json:"is_premium,omitempty"`
}

// Profile converts the sender into the refreshable profile columns.
func (u User) Profile() store.Profile {
	p := store.Profile{IsPremium: &u.IsPremium}
	if u.Username != "" {
		username := u.Username
		p.Username = &username
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		p.DisplayName = &name
	}
	return p
}

// Message is a text message.
type Message struct {
	MessageID int64  `json:"message_id"`
	ChatID    int64  `json:"chat_id"`
	From      User   `json:"from"`
	Text      string `json:"text"`
}

// CallbackQuery is a button press.
type CallbackQuery struct {
	ID     string `json:"id"`
	ChatID int64  `json:"chat_id"`
	From   User   `json:"from"`
	Data   string `json:"data"`
}

// Update is one inbound event. Exactly one of Message and Callback is set.
type Update struct {
	UpdateID int64          `json:"update_id"`
	Message  *Message       `json:"message,omitempty"`
	Callback *CallbackQuery `json:"callback_query,omitempty"`
}

// Kind names the update type for logs and metrics.
func (u *Update) Kind() string {
	switch {
	case u.Message != nil:
		return "message"
	case u.Callback != nil:
		return "callback"
	default:
		return "unknown"
	}
}

// From returns the sender.
func (u *Update) From() (User, bool) {
	switch {
	case u.Message != nil:
		return u.Message.From, true
	case u.Callback != nil:
		return u.Callback.From, true
	default:
		return User{}, false
	}
}

// ChatID returns the chat replies go to. It falls back to the sender id.
func (u *Update) ChatID() int64 {
	switch {
	case u.Message != nil && u.Message.ChatID != 0:
		return u.Message.ChatID
	case u.Callback != nil && u.Callback.ChatID != 0:
		return u.Callback.ChatID
	}
	from, _ := u.From()
	return from.ID
}

// Command returns the command name of a "/name args" message, without the slash
// and any "@bot" suffix.
func (u *Update) Command() (string, bool) {
	if u.Message == nil || !strings.HasPrefix(u.Message.Text, "/") {
		return "", false
	}
	name := strings.Fields(u.Message.Text)[0][1:]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name), name != ""
}
