package i18n

// esCL holds the Chilean Spanish messages shown to most end users.
var esCL = map[string]string{
	"UNKNOWN":           "Ocurrió un error inesperado.",
	"INTERNAL_ERROR":    "Ocurrió un error inesperado.",
	"UNAUTHORIZED":      "Inicia sesión para continuar.",
	"SESSION_EXPIRED":   "Tu sesión expiró. Vuelve a iniciar sesión.",
	"FORBIDDEN_ROLE":    "Tu rol no permite esta acción.",
	"WRONG_ORG_KIND":    "Esta acción no está disponible para tu organización.",
	"NO_ACTIVE_SITE":    "Primero selecciona un sitio activo.",
	"INVALID_ID":        "El identificador no es válido.",
	"INVALID_BODY":      "No se pudo leer el cuerpo de la solicitud.",
	"ORG_NOT_FOUND":     "Organización no encontrada.",
	"ORG_NAME_REQUIRED": "El nombre de la organización es obligatorio.",
	"ORG_INVALID_KIND":  "El tipo de organización no es válido.",
	"ORG_SLUG_TAKEN":    "Ya existe una organización con ese identificador.",
	"SITE_NOT_FOUND":    "Sitio no encontrado.",
	"SITE_NAME_REQUIRED": "El nombre del sitio es obligatorio.",
	"PLAN_NOT_FOUND":         "Plan no encontrado.",
	"PLAN_CODE_TAKEN":        "Ya existe un plan con ese código.",
	"PLAN_CODE_REQUIRED":     "El código y el nombre del plan son obligatorios.",
	"SUBSCRIPTION_NOT_FOUND": "La organización no tiene una suscripción activa.",

	"AREA_NOT_FOUND":            "Área no encontrada.",
	"AREA_NAME_REQUIRED":        "El nombre del área es obligatorio.",
	"SECTOR_NOT_FOUND":          "Sector no encontrado.",
	"SECTOR_NAME_REQUIRED":      "El nombre del sector es obligatorio.",
	"SUBSECTOR_NOT_FOUND":       "Subsector no encontrado.",
	"SUBSECTOR_NAME_REQUIRED":   "El nombre del subsector es obligatorio.",
	"DUPLICATE_CODE":            "Ese código ya está en uso.",
	"PLOT_NOT_FOUND":            "Parcela no encontrada.",
	"PLOT_TYPE_NOT_FOUND":       "Tipo de parcela no encontrado.",
	"PLOT_TYPE_AND_CODE_REQUIRED": "El tipo de parcela y el código son obligatorios.",
	"INVALID_PLOT_ID":           "El identificador de la parcela no es válido.",
	"SPACE_NOT_FOUND":           "Espacio no encontrado.",
	"INVALID_SPACE_ID":          "El identificador del espacio no es válido.",
	"INVALID_STATUS":            "El estado de espacio {{.status}} no es reconocido.",
	"SPACE_OCCUPIED":            "El espacio ya está ocupado.",
	"SPACE_LOCKED":              "El espacio está bloqueado.",

	"REQUEST_NOT_FOUND":       "Solicitud de sepultación no encontrada.",
	"DECEASED_NAME_REQUIRED":  "El nombre completo del difunto es obligatorio.",
	"DATE_OF_DEATH_REQUIRED":  "La fecha de defunción es obligatoria.",
	"CEMETERY_REQUIRED":       "Se requiere una organización de cementerio.",
	"CEMETERY_SITE_REQUIRED":  "Se requiere un sitio de cementerio.",
	"INVALID_CEMETERY":        "La referencia al cementerio no es válida.",
	"INVALID_CEMETERY_ORG":    "La organización seleccionada no es un cementerio.",
	"CEMETERY_ORG_NOT_FOUND":  "Organización de cementerio no encontrada.",
	"CEMETERY_SITE_NOT_FOUND": "Sitio de cementerio no encontrado.",
	"SITE_MISMATCH":           "La solicitud pertenece a otro sitio.",
	"INVALID_REQUEST_ID":      "El identificador de la solicitud no es válido.",

	"DECEASED_NOT_FOUND":     "Registro de difunto no encontrado.",
	"FULL_NAME_REQUIRED":     "El nombre completo es obligatorio.",
	"INVALID_DECEASED_ID":    "El identificador del registro no es válido.",
	"INVALID_SEARCH_FILTER":  "No se pudo interpretar el filtro de búsqueda.",
	"MEMORIAL_NOT_FOUND":     "Página conmemorativa no encontrada.",
	"MEMORIAL_SLUG_CONFLICT": "Ya existe una página conmemorativa para este registro.",
}
