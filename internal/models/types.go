package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role 用户角色
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePMO       Role = "pmo"
	RolePM        Role = "pm"
	RoleDeveloper Role = "developer"
)

// IsValid 是否为已知角色
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePMO, RolePM, RoleDeveloper:
		return true
	}
	return false
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// IsValid 是否为已知状态
func (s ProjectStatus) IsValid() bool {
	return s == ProjectStatusActive || s == ProjectStatusArchived
}

// TaskStatus 任务状态，状态间迁移不做限制
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "未着手"
	TaskStatusInProgress TaskStatus = "進行中"
	TaskStatusDone       TaskStatus = "完了"
	TaskStatusOnHold     TaskStatus = "保留"
)

// IsValid 是否为已知状态
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusDone, TaskStatusOnHold:
		return true
	}
	return false
}

// StringList 以JSON数组形式存储的字符串列表
type StringList []string

// Scan 实现sql.Scanner接口
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("StringList: 不支持的类型 %T", value)
	}

	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value 实现driver.Valuer接口
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
