package model

type EstadisticasUsuarios struct {
	Total       int `json:"total"`
	Admins      int `json:"admins"`
	Users       int `json:"users"`
	SinPassword int `json:"sin_password"`
}

type EstadisticasTareas struct {
	Total       int `json:"total"`
	Pendientes  int `json:"pendientes"`
	Finalizadas int `json:"finalizadas"`
}

// EstadisticasSistema aggregates counts over both collections. When the
// counts could not be produced, Error is set instead and the zero counts
// stand in, so dashboards render something rather than blowing up.
type EstadisticasSistema struct {
	Usuarios EstadisticasUsuarios `json:"usuarios"`
	Tareas   EstadisticasTareas   `json:"tareas"`
	Error    string               `json:"error,omitempty"`
}
