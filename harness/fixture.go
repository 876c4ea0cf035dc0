package harness

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/domtestio/domtest/dom"
)

// FixtureSelector is the mount point fixtures are injected into.
const FixtureSelector = "#fixture"

// Fixture replaces the content of the document's fixture mount point
// with the given markup and returns the mount selection.
func Fixture(doc *dom.Document, content string) (*goquery.Selection, error) {
	mount := doc.Find(FixtureSelector)
	if mount.Length() == 0 {
		return nil, fmt.Errorf("document has no %s mount point", FixtureSelector)
	}
	return mount.SetHtml(content), nil
}

// QueryFixture returns the elements matching selector inside the
// fixture mount point.
func QueryFixture(doc *dom.Document, selector string) *goquery.Selection {
	return doc.Find(FixtureSelector).Find(selector)
}

// ShadowFixture injects hostHTML into the fixture mount point and
// attaches an open shadow root with shadowHTML to the element matched
// by hostSelector within it.
func ShadowFixture(doc *dom.Document, hostHTML, hostSelector, shadowHTML string) (*dom.ShadowRoot, error) {
	if _, err := Fixture(doc, hostHTML); err != nil {
		return nil, err
	}
	return doc.AttachShadow(FixtureSelector+" "+hostSelector, dom.ShadowModeOpen, shadowHTML)
}
