package model

// Header is the heading paragraph that opens a section.
type Header struct {
	Runs      []StyledRun
	Alignment Alignment
	Level     int // heading level, 1-9
}

// Text returns the header's plain text.
func (h Header) Text() string {
	return RunsText(h.Runs)
}

// Section is a header with the content that follows it up to the next
// section boundary.
type Section struct {
	Header  Header
	Content []ContentItem
}

// Text concatenates the run text of the section's paragraphs and list items
// in order. Table cells and images are not included.
func (s Section) Text() string {
	return joinTexts(s.Content)
}

// Metadata holds document-level properties copied into rendered output.
type Metadata struct {
	Title   string
	Author  string
	Subject string
}
