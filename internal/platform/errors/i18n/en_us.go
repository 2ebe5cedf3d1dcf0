package i18n

// enUS holds the base-locale messages. Keys must match the codes defined in
// internal/platform/errors/codes.go.
var enUS = map[string]string{
	"UNKNOWN":           "An unexpected error occurred.",
	"INTERNAL_ERROR":    "An unexpected error occurred.",
	"UNAUTHORIZED":      "Sign in to continue.",
	"SESSION_EXPIRED":   "Your session has expired. Sign in again.",
	"FORBIDDEN_ROLE":    "Your role does not allow this action.",
	"WRONG_ORG_KIND":    "This action is not available for your organization.",
	"NO_ACTIVE_SITE":    "Select an active site first.",
	"INVALID_ID":        "The identifier is not valid.",
	"INVALID_BODY":      "The request body could not be read.",
	"ORG_NOT_FOUND":     "Organization not found.",
	"ORG_NAME_REQUIRED": "The organization name is required.",
	"ORG_INVALID_KIND":  "The organization kind is not valid.",
	"ORG_SLUG_TAKEN":    "An organization with that identifier already exists.",
	"SITE_NOT_FOUND":    "Site not found.",
	"SITE_NAME_REQUIRED": "The site name is required.",
	"PLAN_NOT_FOUND":         "Plan not found.",
	"PLAN_CODE_TAKEN":        "A plan with that code already exists.",
	"PLAN_CODE_REQUIRED":     "The plan code and name are required.",
	"SUBSCRIPTION_NOT_FOUND": "The organization has no active subscription.",

	"AREA_NOT_FOUND":            "Area not found.",
	"AREA_NAME_REQUIRED":        "The area name is required.",
	"SECTOR_NOT_FOUND":          "Sector not found.",
	"SECTOR_NAME_REQUIRED":      "The sector name is required.",
	"SUBSECTOR_NOT_FOUND":       "Subsector not found.",
	"SUBSECTOR_NAME_REQUIRED":   "The subsector name is required.",
	"DUPLICATE_CODE":            "That code is already in use.",
	"PLOT_NOT_FOUND":            "Plot not found.",
	"PLOT_TYPE_NOT_FOUND":       "Plot type not found.",
	"PLOT_TYPE_AND_CODE_REQUIRED": "The plot type and code are required.",
	"INVALID_PLOT_ID":           "The plot identifier is not valid.",
	"SPACE_NOT_FOUND":           "Space not found.",
	"INVALID_SPACE_ID":          "The space identifier is not valid.",
	"INVALID_STATUS":            "The space status {{.status}} is not recognized.",
	"SPACE_OCCUPIED":            "The space is already occupied.",
	"SPACE_LOCKED":              "The space is locked.",

	"REQUEST_NOT_FOUND":       "Burial request not found.",
	"DECEASED_NAME_REQUIRED":  "The deceased's full name is required.",
	"DATE_OF_DEATH_REQUIRED":  "The date of death is required.",
	"CEMETERY_REQUIRED":       "A cemetery organization is required.",
	"CEMETERY_SITE_REQUIRED":  "A cemetery site is required.",
	"INVALID_CEMETERY":        "The cemetery reference is not valid.",
	"INVALID_CEMETERY_ORG":    "The selected organization is not a cemetery.",
	"CEMETERY_ORG_NOT_FOUND":  "Cemetery organization not found.",
	"CEMETERY_SITE_NOT_FOUND": "Cemetery site not found.",
	"SITE_MISMATCH":           "The request belongs to a different site.",
	"INVALID_REQUEST_ID":      "The request identifier is not valid.",

	"DECEASED_NOT_FOUND":     "Deceased record not found.",
	"FULL_NAME_REQUIRED":     "The full name is required.",
	"INVALID_DECEASED_ID":    "The record identifier is not valid.",
	"INVALID_SEARCH_FILTER":  "The search filter could not be parsed.",
	"MEMORIAL_NOT_FOUND":     "Memorial page not found.",
	"MEMORIAL_SLUG_CONFLICT": "A memorial already exists for this record.",
}
