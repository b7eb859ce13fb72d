// Package ports declares the collaborators the registration pipeline depends
// on. Adapters live under internal/evidence and internal/registration/store.
package ports

//go:generate mockgen -source=storage.go -destination=mocks/storage.go -package=mocks
//go:generate mockgen -source=evidence.go -destination=mocks/evidence.go -package=mocks
//go:generate mockgen -source=stages.go -destination=mocks/stages.go -package=mocks
