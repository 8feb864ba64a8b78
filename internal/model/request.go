package model

// Request bodies accepted by the REST front-end. Spanish domain fields,
// snake_case wire names.

type LoginRequest struct {
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CrearUsuarioRequest struct {
	Nombre string `json:"nombre"`
}

type CrearAdminRequest struct {
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
}

type EstablecerPasswordRequest struct {
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
}

type CambiarPasswordRequest struct {
	PasswordActual string `json:"password_actual"`
	PasswordNueva  string `json:"password_nueva"`
}

type ResetearPasswordRequest struct {
	NombreUsuario string `json:"nombre_usuario"`
}

type CrearTareaRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type AsignacionRequest struct {
	NombreTarea   string `json:"nombre_tarea"`
	NombreUsuario string `json:"nombre_usuario"`
}

type FinalizarTareaRequest struct {
	NombreTarea string `json:"nombre_tarea"`
}

type ComentarioRequest struct {
	NombreTarea string `json:"nombre_tarea"`
	Comentario  string `json:"comentario"`
}
