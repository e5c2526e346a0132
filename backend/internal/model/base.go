package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ── PostgreSQL JSONB 自定义类型 ──

// JSONValue 对应 PostgreSQL JSONB 列，实现 GORM Scanner/Valuer 接口。
type JSONValue []byte

// Scan 读取 JSONB 文本
func (j *JSONValue) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONValue(v)
	default:
		return fmt.Errorf("JSONValue.Scan: unsupported type %T", src)
	}
	return nil
}

// Value 以文本形式写入，由数据库转换为 JSONB
func (j JSONValue) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return string(j), nil
}

// KVRecord 键值表：对应 kv_store
type KVRecord struct {
	Key       string    `gorm:"type:text;primaryKey"                 json:"key"`
	Value     JSONValue `gorm:"type:jsonb;not null"                  json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"updated_at"`
}

// TableName 指定表名
func (KVRecord) TableName() string { return "kv_store" }
