// Package bot holds the chat handlers that read and write the language
// preference.
package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-txcache/langrepo"
	"github.com/goliatone/go-txcache/pipeline"
)

// ErrNoSender is returned for updates without a sender.
var ErrNoSender = errors.New("bot: update has no sender")

// ProvenanceStart tags rows created by the start command.
const ProvenanceStart = "start"

// Bot wires the language handlers to a repository.
type Bot struct {
	repo      *langrepo.Repository
	catalogue *Catalogue
}

// New returns a Bot. A nil catalogue selects DefaultCatalogue.
func New(repo *langrepo.Repository, catalogue *Catalogue) *Bot {
	if catalogue == nil {
		catalogue = DefaultCatalogue()
	}
	return &Bot{repo: repo, catalogue: catalogue}
}

// Register adds the bot's routes to r.
func (b *Bot) Register(r *pipeline.Router) {
	r.Command("start", pipeline.HandlerFunc(b.Start))
	r.Command("lang", pipeline.HandlerFunc(b.ShowLanguage))
	r.Callback(CallbackPrefix, pipeline.HandlerFunc(b.SelectLanguage))
}

// Start refreshes the sender's profile and greets them in their language, or
// asks them to pick one.
func (b *Bot) Start(ctx context.Context, u *pipeline.Update, out pipeline.Sender) error {
	from, ok := u.From()
	if !ok {
		return ErrNoSender
	}

	provenance := ProvenanceStart
	if _, err := b.repo.Touch(ctx, from.ID, from.Profile(), &provenance); err != nil {
		return err
	}

	code, found, err := b.repo.Read(ctx, from.ID)
	if err != nil {
		return err
	}
	if !found {
		return b.prompt(ctx, u, out)
	}
	return out.Send(ctx, pipeline.Reply{ChatID: u.ChatID(), Text: b.catalogue.Lookup(code).Texts.Welcome})
}

// SelectLanguage stores the language picked from the keyboard. The transaction
// is committed before the confirmation is sent.
func (b *Bot) SelectLanguage(ctx context.Context, u *pipeline.Update, out pipeline.Sender) error {
	from, ok := u.From()
	if !ok || u.Callback == nil {
		return ErrNoSender
	}

	code := strings.TrimPrefix(u.Callback.Data, CallbackPrefix)
	if err := b.catalogue.Validate(code); err != nil {
		return b.prompt(ctx, u, out)
	}

	_, err := b.repo.Write(ctx, langrepo.WriteInput{
		AccountID: from.ID,
		Profile:   from.Profile(),
		Language:  &code,
	}, langrepo.WithCommitNow())
	if err != nil {
		return err
	}
	return out.Send(ctx, pipeline.Reply{ChatID: u.ChatID(), Text: b.catalogue.Lookup(code).Texts.Saved})
}

// ShowLanguage reports the current language, or asks for one.
func (b *Bot) ShowLanguage(ctx context.Context, u *pipeline.Update, out pipeline.Sender) error {
	from, ok := u.From()
	if !ok {
		return ErrNoSender
	}

	code, found, err := b.repo.Read(ctx, from.ID)
	if err != nil {
		return err
	}
	if !found {
		return b.prompt(ctx, u, out)
	}
	return out.Send(ctx, pipeline.Reply{ChatID: u.ChatID(), Text: b.catalogue.Lookup(code).Texts.Current})
}

func (b *Bot) prompt(ctx context.Context, u *pipeline.Update, out pipeline.Sender) error {
	return out.Send(ctx, pipeline.Reply{
		ChatID:  u.ChatID(),
		Text:    b.catalogue.Lookup("").Texts.Choose,
		Buttons: b.catalogue.Keyboard(),
	})
}
