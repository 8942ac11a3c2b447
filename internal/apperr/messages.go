package apperr

// Client-facing messages shared by more than one layer.
const (
	MsgInternal = "erro interno do servidor"

	MsgInvalidCredentials = "email ou senha inválidos"
	MsgTokenMissing       = "token não fornecido"
	MsgTokenMalformed     = "formato do token inválido"
	MsgTokenInvalid       = "token inválido ou expirado"

	MsgAccountEmailTaken = "email já cadastrado"

	MsgContactNotFound   = "contato não encontrado"
	MsgContactEmailTaken = "email já cadastrado para outro contato"
	MsgContactPhoneTaken = "telefone já cadastrado para outro contato"
	MsgInvalidCategory   = "categoria inválida"
)
