package domain

// Field names of a lawyer record, in export order.
const (
	FieldName                     = "Name"
	FieldTitle                    = "Title"
	FieldLocation                 = "Location"
	FieldCompany                  = "Company"
	FieldPhone                    = "Phone"
	FieldEmail                    = "Email"
	FieldLinkedIn                 = "LinkedIn"
	FieldCV                       = "CV"
	FieldEducation                = "Education"
	FieldBiography                = "Biography"
	FieldExperience               = "Experience"
	FieldExpertise                = "Expertise"
	FieldAdmissionsQualifications = "AdmissionsQualifications"
	FieldMembershipsAffiliations  = "MembershipsAffiliations"
	FieldNewsEvents               = "NewsEvents"
	FieldPublications             = "Publications"
	FieldClients                  = "Clients"
	FieldDistinctions             = "Distinctions"
	FieldPriorAssociations        = "PriorAssociations"
	FieldImage                    = "Image"
	FieldWebpageURL               = "WebpageURL"
	FieldTimestamp                = "Timestamp"
)

// LawyerFields is the fixed key set every lawyer record carries.
var LawyerFields = []string{
	FieldName,
	FieldTitle,
	FieldLocation,
	FieldCompany,
	FieldPhone,
	FieldEmail,
	FieldLinkedIn,
	FieldCV,
	FieldEducation,
	FieldBiography,
	FieldExperience,
	FieldExpertise,
	FieldAdmissionsQualifications,
	FieldMembershipsAffiliations,
	FieldNewsEvents,
	FieldPublications,
	FieldClients,
	FieldDistinctions,
	FieldPriorAssociations,
	FieldImage,
	FieldWebpageURL,
	FieldTimestamp,
}

// ProfileLink is a site-relative path to one lawyer's profile page.
type ProfileLink string

// LawyerProfile holds the fields extracted from one profile page. A nil
// field was absent on the page. LinkedIn, CV, MembershipsAffiliations,
// Clients and PriorAssociations are never published by the site and stay nil.
type LawyerProfile struct {
	Name                     *string
	Title                    *string
	Location                 *string
	Company                  *string
	Phone                    *string
	Email                    *string
	LinkedIn                 *string
	CV                       *string
	Education                *string
	Biography                *string
	Experience               *string
	Expertise                *string
	AdmissionsQualifications *string
	MembershipsAffiliations  *string
	NewsEvents               *string
	Publications             *string
	Clients                  *string
	Distinctions             *string
	PriorAssociations        *string
	Image                    *string
	WebpageURL               *string
	Timestamp                *string
}

// Record flattens the profile into an ordered record holding all of LawyerFields.
func (p *LawyerProfile) Record() Record {
	values := []*string{
		p.Name,
		p.Title,
		p.Location,
		p.Company,
		p.Phone,
		p.Email,
		p.LinkedIn,
		p.CV,
		p.Education,
		p.Biography,
		p.Experience,
		p.Expertise,
		p.AdmissionsQualifications,
		p.MembershipsAffiliations,
		p.NewsEvents,
		p.Publications,
		p.Clients,
		p.Distinctions,
		p.PriorAssociations,
		p.Image,
		p.WebpageURL,
		p.Timestamp,
	}

	record := NewRecord()
	for i, key := range LawyerFields {
		record.Set(key, values[i])
	}
	return record
}
