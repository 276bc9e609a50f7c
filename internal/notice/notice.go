// Package notice holds the dismissible status banner each panel shows after
// an action.
package notice

// Kind classifies a banner
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is a panel-local banner. The zero value means no banner.
type Notice struct {
	Kind Kind
	Text string
}

func Success(text string) Notice {
	return Notice{Kind: KindSuccess, Text: text}
}

func Error(text string) Notice {
	return Notice{Kind: KindError, Text: text}
}

// Visible reports whether there is anything to show
func (n Notice) Visible() bool {
	return n.Text != ""
}

func (n Notice) IsError() bool {
	return n.Kind == KindError
}
