package model

import (
	"strconv"
	"strings"
)

const RoleAdmin = "admin"

type User struct {
	Id    FlexInt `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
}

func (u User) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(u.Role), RoleAdmin)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
