package resource

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"path"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns fetched bytes into a cached value.
type Decoder struct {
	ContentType string
	Decode      func(data []byte) (any, error)
}

var (
	// Text decodes UTF-8 or BOM-marked UTF-16 text into a string.
	Text = Decoder{ContentType: "text/plain", Decode: decodeText}

	// XML decodes a document into an *XMLNode tree.
	XML = Decoder{ContentType: "text/xml", Decode: decodeXML}

	// Image decodes PNG, JPEG or BMP data into an *image.NRGBA.
	Image = Decoder{ContentType: "image/*", Decode: decodeImage}

	// Raw stores the fetched bytes unchanged.
	Raw = Decoder{ContentType: "application/octet-stream", Decode: func(data []byte) (any, error) { return data, nil }}
)

// DecoderFor picks a decoder from the extension of name.
func DecoderFor(name string) Decoder {
	switch strings.ToLower(path.Ext(name)) {
	case ".xml":
		return XML
	case ".png", ".jpg", ".jpeg", ".bmp":
		return Image
	case ".tga":
		return TGA
	case ".txt", ".json", ".csv", ".glsl", ".vert", ".frag":
		return Text
	default:
		return Raw
	}
}

// toUTF8 strips a UTF-8 BOM or converts BOM-marked UTF-16 to UTF-8.
func toUTF8(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("decoding text: %w", err)
	}
	return out, nil
}

func decodeText(data []byte) (any, error) {
	out, err := toUTF8(data)
	if err != nil {
		return nil, err
	}
	return string(out), nil
}

// XMLNode is one element of a parsed XML document.
type XMLNode struct {
	Name     string
	Attrs    map[string]string
	Text     string // concatenated character data, trimmed
	Children []*XMLNode
}

// Attr returns the attribute key.
func (n *XMLNode) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// Child returns the first child element named name, or nil.
func (n *XMLNode) Child(name string) *XMLNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child element named name.
func (n *XMLNode) ChildrenNamed(name string) []*XMLNode {
	var out []*XMLNode
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func decodeXML(data []byte) (any, error) {
	body, err := toUTF8(data)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	// Input is already UTF-8; accept documents that still declare another charset.
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	var (
		root  *XMLNode
		stack []*XMLNode
		text  [][]byte
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &XMLNode{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
			text = append(text, nil)
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1] = append(text[len(text)-1], t...)
			}
		case xml.EndElement:
			top := len(stack) - 1
			stack[top].Text = strings.TrimSpace(string(text[top]))
			stack = stack[:top]
			text = text[:top]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing xml: no root element")
	}
	return root, nil
}

func decodeImage(data []byte) (any, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if nrgba, ok := src.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba, nil
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}
