package bot

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-txcache/langrepo"
	"github.com/goliatone/go-txcache/pipeline"
)

// CallbackPrefix prefixes the callback data of language buttons.
const CallbackPrefix = "lang:"

// Texts holds the reply strings of one language.
type Texts struct {
	Welcome   string
	Saved     string
	Current   string
	Choose string
}

// Language is one selectable language.
type Language struct {
	Code  string
	Name  string
	Texts Texts
}

// Catalogue lists the selectable languages in display order.
type Catalogue struct {
	languages []Language
	byCode    map[string]Language
	fallback  string
}

// NewCatalogue builds a catalogue. The first language is used before the user
// chose one.
func NewCatalogue(languages ...Language) (*Catalogue, error) {
	if len(languages) == 0 {
		return nil, fmt.Errorf("bot: catalogue needs at least one language")
	}
	c := &Catalogue{byCode: make(map[string]Language, len(languages)), fallback: languages[0].Code}
	for _, l := range languages {
		if err := langrepo.ValidateLanguage(l.Code); err != nil {
			return nil, fmt.Errorf("bot: language %q: %w", l.Code, err)
		}
		if _, dup := c.byCode[l.Code]; dup {
			return nil, fmt.Errorf("bot: duplicate language %q", l.Code)
		}
		c.byCode[l.Code] = l
		c.languages = append(c.languages, l)
	}
	return c, nil
}

// DefaultCatalogue offers English, Russian and Uzbek.
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(
		Language{Code: "en", Name: "English", Texts: Texts{
			Welcome:   "Welcome back!",
			Saved:     "Language saved.",
			Current:   "Your language is English.",
			Choose: "Please choose your language.",
		}},
		Language{Code: "ru", Name: "Русский", Texts: Texts{
			Welcome:   "С возвращением!",
			Saved:     "Язык сохранён.",
			Current:   "Ваш язык: русский.",
			Choose: "Пожалуйста, выберите язык.",
		}},
		Language{Code: "uz", Name: "O'zbekcha", Texts: Texts{
			Welcome:   "Xush kelibsiz!",
			Saved:     "Til saqlandi.",
			Current:   "Sizning tilingiz: o'zbekcha.",
			Choose: "Iltimos, tilni tanlang.",
		}},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that code is offered by the catalogue.
func (c *Catalogue) Validate(code string) error {
	codes := make([]any, 0, len(c.languages))
	for _, l := range c.languages {
		codes = append(codes, l.Code)
	}
	return validation.Validate(code, validation.Required, validation.In(codes...))
}

// Lookup returns the language for code, or the fallback language.
func (c *Catalogue) Lookup(code string) Language {
	if l, ok := c.byCode[code]; ok {
		return l
	}
	return c.byCode[c.fallback]
}

// Keyboard renders one button per language.
func (c *Catalogue) Keyboard() [][]pipeline.Button {
	rows := make([][]pipeline.Button, 0, len(c.languages))
	for _, l := range c.languages {
		rows = append(rows, []pipeline.Button{{Text: l.Name, Data: CallbackPrefix + l.Code}})
	}
	return rows
}
