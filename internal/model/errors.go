package model

import "errors"

var (
	// Usuario related errors
	ErrUsuarioNoEncontrado   = errors.New("usuario no encontrado")
	ErrUsuarioYaExiste       = errors.New("ya existe un usuario con ese nombre")
	ErrSinPassword           = errors.New("el usuario no tiene contraseña establecida")
	ErrPasswordIncorrecto    = errors.New("contraseña incorrecta")
	ErrPasswordYaEstablecido = errors.New("el usuario ya tiene contraseña establecida")
	ErrEliminarAdmin         = errors.New("no se puede eliminar un administrador")
	ErrResetearAdmin         = errors.New("no se puede resetear la contraseña de un administrador")
	ErrSoloAdmin             = errors.New("se requieren privilegios de administrador")

	// Tarea related errors
	ErrTareaNoEncontrada = errors.New("tarea no encontrada")
	ErrTareaYaExiste     = errors.New("ya existe una tarea con ese nombre")
	ErrTareaYaFinalizada = errors.New("la tarea ya está finalizada")
	ErrTareaNoFinalizada = errors.New("la tarea no está finalizada")
	ErrUsuarioYaAsignado = errors.New("el usuario ya estaba asignado a la tarea")
	ErrUsuarioNoAsignado = errors.New("el usuario no estaba asignado a la tarea")

	// Token verification errors. Every caller treats them identically as a
	// denial; the distinct sentinels exist so logs can tell the causes apart.
	ErrTokenExpirado       = errors.New("token expirado")
	ErrTokenFirmaInvalida  = errors.New("token inválido o mal formado")
	ErrTokenTipoIncorrecto = errors.New("tipo de token incorrecto")
	ErrTokenEmisorInvalido = errors.New("emisor o audiencia del token inválidos")
	ErrTokenClaimFaltante  = errors.New("falta un claim requerido en el token")

	// Validation errors wrap this sentinel with a field-specific message.
	ErrValidacion = errors.New("datos inválidos")
)
