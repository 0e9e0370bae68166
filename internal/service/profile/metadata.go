package profile

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/kapu/lw-directory-scraper/internal/constants"
	"github.com/kapu/lw-directory-scraper/internal/page"
	"github.com/kapu/lw-directory-scraper/internal/util"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

// metadataList is one div marker of the metadata container and the first
// list following it.
type metadataList struct {
	label string
	owner string
	list  *goquery.Selection
}

// Metadata is the attorney metadata container split at its div markers.
//
// The container holds div/ul pairs, normally in the order Bar Admissions,
// Education, Practices, Industries. A section is found by label first, so a
// profile without bar admissions does not shift education into its place.
// When no label matches, the pair at the section's position is used, after
// checking enough markers exist and that the pair is not labelled as some
// other known section.
type Metadata struct {
	lists   []metadataList
	labeled bool
}

func ParseMetadata(container *goquery.Selection) Metadata {
	var meta Metadata
	if container == nil || container.Length() == 0 {
		return meta
	}

	known := make(map[string]string)
	for _, section := range []constants.MetadataSection{
		constants.MetadataBarAdmissions,
		constants.MetadataEducation,
		constants.MetadataPractices,
		constants.MetadataIndustries,
	} {
		for _, label := range section.Labels {
			known[label] = section.Name
		}
	}

	container.Find("div").Each(func(_ int, marker *goquery.Selection) {
		label := util.NormalizeLabel(marker.Text())
		owner := known[label]
		if owner != "" {
			meta.labeled = true
		}
		meta.lists = append(meta.lists, metadataList{
			label: label,
			owner: owner,
			list:  marker.NextAllFiltered("ul").First(),
		})
	})

	return meta
}

// Markers returns the number of div markers found.
func (m Metadata) Markers() int {
	return len(m.lists)
}

// Section returns the list for section, or a *errors.StructureError when the
// container does not have it.
func (m Metadata) Section(section constants.MetadataSection) (*goquery.Selection, error) {
	if m.labeled {
		for _, entry := range m.lists {
			if entry.owner == section.Name && entry.list.Length() > 0 {
				return entry.list, nil
			}
		}
	}

	if len(m.lists) <= section.Position {
		return nil, errors.NewStructureError(section.Name, section.Position+1, len(m.lists))
	}
	entry := m.lists[section.Position]
	if entry.owner != "" && entry.owner != section.Name {
		return nil, errors.NewStructureError(section.Name, section.Position+1, len(m.lists))
	}
	if entry.list.Length() == 0 {
		return nil, errors.NewStructureError(section.Name, section.Position+1, len(m.lists))
	}
	return entry.list, nil
}

// Items returns the first content text of every item of section.
func (m Metadata) Items(section constants.MetadataSection) ([]string, error) {
	list, err := m.Section(section)
	if err != nil {
		return nil, err
	}

	items := make([]string, 0)
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text, ok := page.FirstContentText(li); ok && text != "" {
			items = append(items, text)
		}
	})
	return items, nil
}
