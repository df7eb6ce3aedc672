package optimize

import "strings"

type editKind int

const (
	editKeep editKind = iota
	editReplace
	editDelete
)

// lineEdit is the state of one slot in the working line array.
type lineEdit struct {
	kind editKind
	text string
}

func keep(text string) lineEdit    { return lineEdit{kind: editKeep, text: text} }
func replace(text string) lineEdit { return lineEdit{kind: editReplace, text: text} }
func remove() lineEdit             { return lineEdit{kind: editDelete} }

// render reduces the working array to text, dropping deleted slots.
func render(edits []lineEdit, trailingNewline bool) string {
	out := make([]string, 0, len(edits))
	for _, e := range edits {
		if e.kind == editDelete {
			continue
		}
		out = append(out, e.text)
	}
	if len(out) == 0 {
		return ""
	}
	text := strings.Join(out, "\n")
	if trailingNewline {
		text += "\n"
	}
	return text
}
