package domain

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "员工"
	RoleManager  Role = "排班经理"
)

type Tier string

const (
	TierJunior  Tier = "初级"
	TierRegular Tier = "普通"
	TierSenior  Tier = "资深"
)

// HourlyRate 返回对应级别的时薪，未知级别按普通级别计算
func HourlyRate(tier Tier) float64 {
	switch tier {
	case TierJunior:
		return 20
	case TierRegular:
		return 25
	case TierSenior:
		return 30
	default:
		return 25
	}
}

type Employee struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Tier         Tier      `json:"tier"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
