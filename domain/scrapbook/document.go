// Package scrapbook defines the memory scrapbook aggregate: a single
// document holding the story, cherished moments, adoration items, the
// surprise message, visitor interactions, and theme colors.
package scrapbook

import (
	"time"
)

// DefaultEmoji is attached to moments created without an explicit emoji.
const DefaultEmoji = "💕"

// Document is the single aggregate persisted as one JSON file. All
// sections live under it; there are no cross-references beyond containment.
type Document struct {
	CreatedDate         string            `json:"created_date"`
	Sections            Sections          `json:"sections"`
	VisitorInteractions []Interaction     `json:"visitor_interactions"`
	Theme               map[string]string `json:"theme"`
}

// Sections groups the four named subtrees of the document.
type Sections struct {
	Story     StorySection     `json:"story"`
	Moments   MomentsSection   `json:"moments"`
	Adoration AdorationSection `json:"adoration"`
	Surprise  SurpriseSection  `json:"surprise"`
}

// StorySection holds free text that is directly overwritable.
type StorySection struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsLocked bool   `json:"is_locked"`
}

// MomentsSection holds the ordered list of cherished moments.
type MomentsSection struct {
	Title    string   `json:"title"`
	Items    []Moment `json:"items"`
	IsLocked bool     `json:"is_locked"`
}

// AdorationSection holds the ordered list of adoration items.
type AdorationSection struct {
	Title    string          `json:"title"`
	Items    []AdorationItem `json:"items"`
	IsLocked bool            `json:"is_locked"`
}

// SurpriseSection holds the lockable surprise message. The lock is
// advisory metadata for the frontend; the server never enforces it.
type SurpriseSection struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	IsLocked        bool   `json:"is_locked"`
	UnlockCondition string `json:"unlock_condition"`
}

// Moment is one cherished moment. IDs are assigned as item count + 1,
// so they are monotonic only as long as items are never deleted.
type Moment struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Timestamp   string `json:"timestamp"`
}

// AdorationItem is one entry in the adoration list.
type AdorationItem struct {
	ID          int    `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// Interaction is an append-only analytics record of a visitor action.
type Interaction struct {
	Type      string                 `json:"type"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Analytics is computed on demand from the interaction log.
type Analytics struct {
	TotalInteractions  int            `json:"total_interactions"`
	InteractionsByType map[string]int `json:"interactions_by_type"`
	LastInteraction    *Interaction   `json:"last_interaction"`
}

// nowTimestamp formats the current time the way the document stores
// all of its timestamps.
func nowTimestamp() string {
	return time.Now().Format(time.RFC3339)
}

// NewDefaultDocument returns the document used when no persisted file
// exists or the persisted file cannot be decoded.
func NewDefaultDocument() *Document {
	return &Document{
		CreatedDate: nowTimestamp(),
		Sections: Sections{
			Story: StorySection{
				Title:   "Our Story",
				Content: "Add your beautiful story here...",
			},
			Moments: MomentsSection{
				Title: "Cherished Moments",
				Items: []Moment{},
			},
			Adoration: AdorationSection{
				Title: "Things I Adore About You",
				Items: []AdorationItem{},
			},
			Surprise: SurpriseSection{
				Title:           "A Secret Just For You",
				Content:         "Your surprise message will appear here...",
				IsLocked:        true,
				UnlockCondition: "scroll_to_end",
			},
		},
		VisitorInteractions: []Interaction{},
		Theme: map[string]string{
			"primary_color":   "#8B4757",
			"secondary_color": "#F5D5D9",
			"accent_color":    "#D4A5A5",
		},
	}
}

// AddMoment appends a new moment with a computed id and the current
// timestamp, and returns it.
func (d *Document) AddMoment(title, description, emoji string) Moment {
	moment := Moment{
		ID:          len(d.Sections.Moments.Items) + 1,
		Title:       title,
		Description: description,
		Emoji:       emoji,
		Timestamp:   nowTimestamp(),
	}
	d.Sections.Moments.Items = append(d.Sections.Moments.Items, moment)
	return moment
}

// AddAdorationItem appends a new adoration item with a computed id and
// the current timestamp, and returns it.
func (d *Document) AddAdorationItem(label, description string) AdorationItem {
	item := AdorationItem{
		ID:          len(d.Sections.Adoration.Items) + 1,
		Label:       label,
		Description: description,
		Timestamp:   nowTimestamp(),
	}
	d.Sections.Adoration.Items = append(d.Sections.Adoration.Items, item)
	return item
}

// RecordInteraction appends an interaction record with the current
// timestamp. A nil data payload is stored as an empty map.
func (d *Document) RecordInteraction(interactionType string, data map[string]interface{}) Interaction {
	if data == nil {
		data = map[string]interface{}{}
	}
	interaction := Interaction{
		Type:      interactionType,
		Timestamp: nowTimestamp(),
		Data:      data,
	}
	d.VisitorInteractions = append(d.VisitorInteractions, interaction)
	return interaction
}

// SetStoryContent overwrites the story text.
func (d *Document) SetStoryContent(content string) {
	d.Sections.Story.Content = content
}

// SetSurpriseContent overwrites the surprise message.
func (d *Document) SetSurpriseContent(content string) {
	d.Sections.Surprise.Content = content
}

// MergeTheme shallow-merges the given color roles into the theme.
// Roles absent from the patch keep their current values.
func (d *Document) MergeTheme(patch map[string]string) {
	if d.Theme == nil {
		d.Theme = map[string]string{}
	}
	for role, color := range patch {
		d.Theme[role] = color
	}
}

// ComputeAnalytics derives interaction totals, per-type counts, and the
// most recent interaction from the visitor log.
func (d *Document) ComputeAnalytics() Analytics {
	analytics := Analytics{
		TotalInteractions:  len(d.VisitorInteractions),
		InteractionsByType: map[string]int{},
	}
	for _, interaction := range d.VisitorInteractions {
		analytics.InteractionsByType[interaction.Type]++
	}
	if n := len(d.VisitorInteractions); n > 0 {
		last := d.VisitorInteractions[n-1]
		analytics.LastInteraction = &last
	}
	return analytics
}

// Clone returns a deep copy of the document so readers never observe
// a mutation in progress.
func (d *Document) Clone() *Document {
	clone := *d

	clone.Sections.Moments.Items = make([]Moment, len(d.Sections.Moments.Items))
	copy(clone.Sections.Moments.Items, d.Sections.Moments.Items)

	clone.Sections.Adoration.Items = make([]AdorationItem, len(d.Sections.Adoration.Items))
	copy(clone.Sections.Adoration.Items, d.Sections.Adoration.Items)

	clone.VisitorInteractions = make([]Interaction, len(d.VisitorInteractions))
	for i, interaction := range d.VisitorInteractions {
		data := make(map[string]interface{}, len(interaction.Data))
		for k, v := range interaction.Data {
			data[k] = v
		}
		interaction.Data = data
		clone.VisitorInteractions[i] = interaction
	}

	clone.Theme = make(map[string]string, len(d.Theme))
	for role, color := range d.Theme {
		clone.Theme[role] = color
	}

	return &clone
}
