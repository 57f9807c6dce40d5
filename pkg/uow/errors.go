package uow

import "errors"

// Ошибки реестра репозиториев. Возвращаются из GetRepository/Get и
// хелперов GetRepositoryAs/GetAs при промахе по имени или типу.
var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")
)
