package browser

import (
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// By is the strategy a Selector is resolved with.
type By int

const (
	ByID By = iota
	ByQuery
	ByXPath
)

// Selector locates an element in the live page.
type Selector struct {
	Value string
	By    By
}

func ID(id string) Selector {
	return Selector{Value: id, By: ByID}
}

func CSS(query string) Selector {
	return Selector{Value: query, By: ByQuery}
}

func XPath(expr string) Selector {
	return Selector{Value: expr, By: ByXPath}
}

// LinkText matches an anchor whose visible text equals text.
func LinkText(text string) Selector {
	return XPath(fmt.Sprintf("//a[normalize-space(.)=%s]", xpathLiteral(text)))
}

func (s Selector) String() string {
	switch s.By {
	case ByID:
		return "id=" + s.Value
	case ByXPath:
		return "xpath=" + s.Value
	default:
		return "css=" + s.Value
	}
}

func (s Selector) option() chromedp.QueryOption {
	switch s.By {
	case ByID:
		return chromedp.ByID
	case ByXPath:
		return chromedp.BySearch
	default:
		return chromedp.ByQuery
	}
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if part != "" {
			quoted = append(quoted, `"`+part+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}
