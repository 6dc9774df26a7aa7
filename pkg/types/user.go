package types

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleTrainer  Role = "TRAINER"
	RoleEmployee Role = "EMPLOYEE"
	RoleClient   Role = "CLIENT"
)
