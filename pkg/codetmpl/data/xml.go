package data

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// listAttr forces an element's children to decode as a sequence even when
// there is only one of them.
const listAttr = "list"

// decodeXML maps an element tree onto values: leaf elements become strings,
// child elements become ordered map entries keyed by tag, repeated tags become
// sequences and attributes become "@name" entries.
func decodeXML(r io.Reader) (map[string]interface{}, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		return map[string]interface{}{}, nil
	}

	v := convertXMLElement(root)
	m, ok := v.(*Map)
	if !ok {
		if text, _ := v.(string); text == "" {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("root element <%s> must contain child elements", root.Tag)
	}
	return m.ToMap(), nil
}

func convertXMLElement(el *etree.Element) interface{} {
	children := el.ChildElements()
	forceList := el.SelectAttrValue(listAttr, "") == "true"

	if forceList {
		list := make([]interface{}, 0, len(children))
		for _, child := range children {
			list = append(list, convertXMLElement(child))
		}
		return list
	}

	attrs := make([]etree.Attr, 0, len(el.Attr))
	for _, a := range el.Attr {
		if a.Space == "xmlns" || a.Key == "xmlns" {
			continue
		}
		attrs = append(attrs, a)
	}

	text := strings.TrimSpace(el.Text())
	if len(children) == 0 && len(attrs) == 0 {
		return text
	}

	m := NewMap()
	for _, a := range attrs {
		m.Set("@"+a.Key, a.Value)
	}
	if len(children) == 0 && text != "" {
		m.Set("#text", text)
	}

	counts := make(map[string]int, len(children))
	for _, child := range children {
		counts[child.Tag]++
	}
	for _, child := range children {
		val := convertXMLElement(child)
		if counts[child.Tag] == 1 {
			m.Set(child.Tag, val)
			continue
		}
		existing, _ := m.Get(child.Tag)
		list, _ := existing.([]interface{})
		m.Set(child.Tag, append(list, val))
	}
	return m
}
