package sessions

import (
	"strings"

	"golang.org/x/net/html"
)

type loginForm struct {
	Action string
	Method string
	Fields map[string]string
}

// findFormWithField locates the first form whose inputs include one of the
// given field names, returning its action, method and every named field with
// its preset value. Hidden fields come along, which is what keeps CSRF
// tokens intact when the form is resubmitted.
func findFormWithField(raw string, fieldNames []string) *loginForm {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil
	}

	wanted := map[string]bool{}
	for _, n := range fieldNames {
		wanted[strings.ToLower(n)] = true
	}

	var found *loginForm
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "form" {
			if f := inspectForm(n, wanted); f != nil {
				found = f
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func inspectForm(form *html.Node, wanted map[string]bool) *loginForm {
	f := &loginForm{
		Action: attr(form, "action"),
		Method: strings.ToUpper(attrDefault(form, "method", "POST")),
		Fields: map[string]string{},
	}

	hasTarget := false
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "input", "textarea", "select":
				name := attr(n, "name")
				if name != "" {
					f.Fields[name] = attr(n, "value")
					if wanted[strings.ToLower(name)] {
						hasTarget = true
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)

	if !hasTarget {
		return nil
	}
	return f
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func attrDefault(n *html.Node, key, def string) string {
	if v := attr(n, key); v != "" {
		return v
	}
	return def
}
