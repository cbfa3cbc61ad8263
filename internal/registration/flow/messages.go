package flow

// User-facing messages recorded on the registration error.
const (
	MessageRequiredFields   = "Los campos de documento y celular son obligatorios."
	MessageConsentRequired  = "Debe aceptar las Políticas para continuar."
	MessageInvalidFields    = "Revise los datos del formulario."
	MessageNameRequired     = "Nombre y apellido son requeridos"
	MessageUserIncomplete   = "Complete los datos del usuario primero"
	MessageCoverageRequired = "Seleccione para quién desea cotizar"
	MessagePlanUnavailable  = "El plan seleccionado no está disponible"
	MessageNotComplete      = "La cotización aún no está completa"
)
