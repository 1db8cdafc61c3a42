package domain

import (
	"sort"
	"time"
)

// CollectionColor is one of the fixed palette entries a collection can be tagged with.
type CollectionColor string

const (
	ColorSunset    CollectionColor = "sunset"
	ColorPoppy     CollectionColor = "poppy"
	ColorRosebud   CollectionColor = "rosebud"
	ColorSnowflake CollectionColor = "snowflake"
	ColorCandy     CollectionColor = "candy"
	ColorFirtree   CollectionColor = "firtree"
	ColorMetal     CollectionColor = "metal"
	ColorPowder    CollectionColor = "powder"
)

// Gradient is the pair of hex colors a palette entry renders with.
type Gradient struct {
	From string
	To   string
}

var palette = map[CollectionColor]Gradient{
	ColorSunset:    {From: "#EF4444", To: "#F97316"},
	ColorPoppy:     {From: "#EC4899", To: "#8B5CF6"},
	ColorRosebud:   {From: "#8B5CF6", To: "#6366F1"},
	ColorSnowflake: {From: "#6366F1", To: "#22D3EE"},
	ColorCandy:     {From: "#FBBF24", To: "#84CC16"},
	ColorFirtree:   {From: "#10B981", To: "#16A34A"},
	ColorMetal:     {From: "#334155", To: "#6B7280"},
	ColorPowder:    {From: "#C084FC", To: "#F472B6"},
}

// Colors returns the palette in a stable order.
func Colors() []CollectionColor {
	out := make([]CollectionColor, 0, len(palette))
	for c := range palette {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid reports whether c belongs to the palette.
func (c CollectionColor) Valid() bool {
	_, ok := palette[c]
	return ok
}

// Gradient returns the hex colors for c, falling back to metal for unknown values.
func (c CollectionColor) Gradient() Gradient {
	if g, ok := palette[c]; ok {
		return g
	}
	return palette[ColorMetal]
}

// Collection is a named, color-tagged group of tasks owned by one user.
type Collection struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Color     CollectionColor `json:"color"`
	CreatedAt time.Time       `json:"created_at"`
}

// CollectionWithTasks is the board read model.
type CollectionWithTasks struct {
	Collection
	Tasks []Task `json:"tasks"`
}

// DoneCount returns how many of the collection's tasks are done.
func (c CollectionWithTasks) DoneCount() int {
	n := 0
	for _, t := range c.Tasks {
		if t.Done {
			n++
		}
	}
	return n
}

// Progress returns the completion percentage of the collection.
func (c CollectionWithTasks) Progress() float64 {
	return Progress(c.Tasks)
}

// Progress returns done/total*100, or 0 for an empty slice.
func Progress(tasks []Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	return float64(done) / float64(len(tasks)) * 100
}

// CreateCollectionInput is the payload of the create-collection operation.
type CreateCollectionInput struct {
	Name  string          `json:"name" yaml:"name" validate:"required"`
	Color CollectionColor `json:"color" yaml:"color" validate:"required,collectioncolor"`
}
