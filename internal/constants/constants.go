package constants

// Directory listing markup.
var Directory = struct {
	ListTabID    string
	PeopleListID string
	ViewAllXPath string
}{
	ListTabID:    "ContentPlaceHolder1_MainContentPlaceHolder_ListTab",
	PeopleListID: "PeopleList",
	ViewAllXPath: `//div/span/a[contains(text(),'All')]`,
}

// Profile page markup.
var Profile = struct {
	ContentID       string
	NameID          string
	TitleID         string
	OfficesID       string
	PhoneID         string
	EmailID         string
	MetadataID      string
	BiographyID     string
	ExperienceID    string
	PhotoClass      string
	MoreLinkText    string
	ExperienceLink  string
	SectionIDFormat string
}{
	ContentID:       "RightColumnMainContent",
	NameID:          "ContentPlaceHolder1_HeadingPlaceHolder_NameLabel",
	TitleID:         "ContentPlaceHolder1_HeadingPlaceHolder_TitleLabel",
	OfficesID:       "ContentPlaceHolder1_HeadingPlaceHolder_OfficesLabel",
	PhoneID:         "PhoneNumberLabel",
	EmailID:         "ContentPlaceHolder1_HeadingPlaceHolder_EmailLink",
	MetadataID:      "AttorneyMetaData",
	BiographyID:     "ExpertiseContentArea",
	ExperienceID:    "ExperienceContentArea",
	PhotoClass:      "bioPhoto",
	MoreLinkText:    "more",
	ExperienceLink:  "Experience",
	SectionIDFormat: "ContentPlaceHolder1_RightColumnNavigationPlaceHolder_AdditionalInfoControl1_%sSection_AdditionalInfoSectionWrapper",
}

// SidebarSection ties a right-column section to the navigation link that
// must be present for the section to count.
type SidebarSection struct {
	Key      string
	LinkText string
}

var (
	SectionEvents       = SidebarSection{Key: "Events", LinkText: "Events"}
	SectionNews         = SidebarSection{Key: "News", LinkText: "News"}
	SectionPublications = SidebarSection{Key: "ThoughtLeadership", LinkText: "Thought Leadership"}
	SectionDistinctions = SidebarSection{Key: "AwardsRankings", LinkText: "Awards & Rankings"}
)

// MetadataSection names one labelled list of the attorney metadata
// container. Position is the list's index in the layout the site has
// always used: Bar Admissions, Education, Practices, Industries.
type MetadataSection struct {
	Name     string
	Labels   []string
	Position int
}

var (
	MetadataBarAdmissions = MetadataSection{
		Name:     "bar_admissions",
		Labels:   []string{"bar admissions", "bar admission", "bar qualifications", "bar qualification", "admissions", "qualifications"},
		Position: 0,
	}
	MetadataEducation = MetadataSection{
		Name:     "education",
		Labels:   []string{"education"},
		Position: 1,
	}
	MetadataPractices = MetadataSection{
		Name:     "practices",
		Labels:   []string{"practices", "practice", "practice areas"},
		Position: 2,
	}
	MetadataIndustries = MetadataSection{
		Name:     "industries",
		Labels:   []string{"industries", "industry"},
		Position: 3,
	}
)

// DefaultCompany is the employer recorded for every profile.
const DefaultCompany = "Latham & Watkins"
