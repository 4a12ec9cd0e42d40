package dto

import (
	"bytes"
	"encoding/json"
)

// Nullable 区分"未传"、"传null"和"传值"三种状态，用于部分更新
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// NewNullable 创建有值的Nullable
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

// Null 创建显式null的Nullable
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON 仅在JSON中出现该字段时被调用
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		var zero T
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON 未设置或null时输出null
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr 有值时返回指针，否则返回nil
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Interface 供验证器读取，未设置或null时返回nil
func (n Nullable[T]) Interface() interface{} {
	if !n.Valid {
		return nil
	}
	return n.Value
}
