package entity

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ElementRecord is one interactive element of a snapshot. Index is the
// element's position among the visible elements at snapshot time, not an
// identity: any navigation or DOM change may point it at another element.
type ElementRecord struct {
	Index       int     `json:"index"`
	Tag         string  `json:"tag"`
	ElementType *string `json:"type,omitempty"`
	Text        string  `json:"text"`
	Href        *string `json:"href,omitempty"`
}

type PageSnapshot struct {
	URL      string
	Title    string
	Elements []ElementRecord
	Text     string
}
