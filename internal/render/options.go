package render

// Options configures markdown rendering.
type Options struct {
	// Style is a glamour style name ("dark", "light") or a path to a
	// JSON theme file.
	Style string
	// Width is the word-wrap width.
	Width int
	// PreserveNewLines keeps the original line breaks.
	PreserveNewLines bool
	// TableWrap enables word wrap inside table cells.
	TableWrap bool
}

// DefaultOptions returns the standard rendering options.
func DefaultOptions() Options {
	return Options{
		Style:            "dark",
		Width:            80,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy of the options with the given wrap width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy of the options with the given style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
