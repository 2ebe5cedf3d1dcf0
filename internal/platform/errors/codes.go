// Package errors provides structured domain errors with stable machine codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// Session/context errors
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeForbiddenRole  Code = "FORBIDDEN_ROLE"
	CodeWrongOrgKind   Code = "WRONG_ORG_KIND"
	CodeNoActiveSite   Code = "NO_ACTIVE_SITE"
	CodeSessionExpired Code = "SESSION_EXPIRED"

	// Directory errors
	CodeOrgNotFound       Code = "ORG_NOT_FOUND"
	CodeOrgNameRequired   Code = "ORG_NAME_REQUIRED"
	CodeOrgInvalidKind    Code = "ORG_INVALID_KIND"
	CodeOrgSlugTaken      Code = "ORG_SLUG_TAKEN"
	CodeSiteNotFound      Code = "SITE_NOT_FOUND"
	CodeSiteNameRequired  Code = "SITE_NAME_REQUIRED"
	CodePlanNotFound      Code = "PLAN_NOT_FOUND"
	CodePlanCodeTaken     Code = "PLAN_CODE_TAKEN"
	CodePlanCodeRequired  Code = "PLAN_CODE_REQUIRED"
	CodeSubscriptionEmpty Code = "SUBSCRIPTION_NOT_FOUND"

	// Spatial hierarchy errors
	CodeAreaNotFound          Code = "AREA_NOT_FOUND"
	CodeAreaNameRequired      Code = "AREA_NAME_REQUIRED"
	CodeSectorNotFound        Code = "SECTOR_NOT_FOUND"
	CodeSectorNameRequired    Code = "SECTOR_NAME_REQUIRED"
	CodeSubsectorNotFound     Code = "SUBSECTOR_NOT_FOUND"
	CodeSubsectorNameRequired Code = "SUBSECTOR_NAME_REQUIRED"
	CodeDuplicateCode         Code = "DUPLICATE_CODE"

	// Plot errors
	CodePlotNotFound         Code = "PLOT_NOT_FOUND"
	CodePlotTypeNotFound     Code = "PLOT_TYPE_NOT_FOUND"
	CodePlotTypeCodeRequired Code = "PLOT_TYPE_AND_CODE_REQUIRED"
	CodeInvalidPlotID        Code = "INVALID_PLOT_ID"

	// Space errors
	CodeSpaceNotFound  Code = "SPACE_NOT_FOUND"
	CodeInvalidSpaceID Code = "INVALID_SPACE_ID"
	CodeInvalidStatus  Code = "INVALID_STATUS"
	CodeSpaceOccupied  Code = "SPACE_OCCUPIED"
	CodeSpaceLocked    Code = "SPACE_LOCKED"

	// Burial request errors
	CodeRequestNotFound      Code = "REQUEST_NOT_FOUND"
	CodeDeceasedNameRequired Code = "DECEASED_NAME_REQUIRED"
	CodeDateOfDeathRequired  Code = "DATE_OF_DEATH_REQUIRED"
	CodeCemeteryRequired     Code = "CEMETERY_REQUIRED"
	CodeCemeterySiteRequired Code = "CEMETERY_SITE_REQUIRED"
	CodeInvalidCemetery      Code = "INVALID_CEMETERY"
	CodeInvalidCemeteryOrg   Code = "INVALID_CEMETERY_ORG"
	CodeCemeteryOrgNotFound  Code = "CEMETERY_ORG_NOT_FOUND"
	CodeCemeterySiteNotFound Code = "CEMETERY_SITE_NOT_FOUND"
	CodeSiteMismatch         Code = "SITE_MISMATCH"
	CodeInvalidRequestID     Code = "INVALID_REQUEST_ID"

	// Deceased record errors
	CodeDeceasedNotFound     Code = "DECEASED_NOT_FOUND"
	CodeFullNameRequired     Code = "FULL_NAME_REQUIRED"
	CodeInvalidDeceasedID    Code = "INVALID_DECEASED_ID"
	CodeInvalidSearchFilter  Code = "INVALID_SEARCH_FILTER"
	CodeMemorialNotFound     Code = "MEMORIAL_NOT_FOUND"
	CodeMemorialSlugConflict Code = "MEMORIAL_SLUG_CONFLICT"

	// Generic request errors
	CodeInvalidID     Code = "INVALID_ID"
	CodeInvalidBody   Code = "INVALID_BODY"
	CodeInternalError Code = "INTERNAL_ERROR"
)

// HTTPStatus maps the code onto the transport taxonomy. Not-found covers both
// missing rows and rows owned by another tenant so existence never leaks
// across organizations.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeOrgNotFound, CodeSiteNotFound, CodePlanNotFound,
		CodeSubscriptionEmpty, CodeAreaNotFound, CodeSectorNotFound,
		CodeSubsectorNotFound, CodePlotNotFound, CodeSpaceNotFound,
		CodeRequestNotFound, CodeCemeteryOrgNotFound, CodeCemeterySiteNotFound,
		CodeDeceasedNotFound, CodeMemorialNotFound:
		return http.StatusNotFound
	case CodeDuplicateCode, CodeOrgSlugTaken, CodePlanCodeTaken,
		CodeSpaceOccupied, CodeSpaceLocked, CodeMemorialSlugConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeSessionExpired:
		return http.StatusUnauthorized
	case CodeForbiddenRole, CodeWrongOrgKind:
		return http.StatusForbidden
	case CodeUnknown, CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
