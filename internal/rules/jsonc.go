package rules

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"
)

var hujsonPosRegex = regexp.MustCompile(`line (\d+), column (\d+)`)

// decodeJSON 설정 JSON 디코딩. jsonc면 주석/후행 콤마를 허용한다.
// 실패 시 오류 바이트 오프셋을 함께 반환한다.
func decodeJSON(content string, jsonc bool) (map[string]any, int, error) {
	data := []byte(content)
	if jsonc {
		// Standardize는 주석과 후행 콤마를 공백으로 바꾸므로 오프셋이 유지된다
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, hujsonOffset(content, err), err
		}
		data = std
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, jsonOffset(err), err
	}
	doc, _ := raw.(map[string]any)
	return doc, 0, nil
}

func jsonOffset(err error) int {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return int(syntaxErr.Offset)
	}
	return 0
}

// hujsonOffset "line N, column M" 오류 위치를 바이트 오프셋으로
func hujsonOffset(content string, err error) int {
	m := hujsonPosRegex.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	column, _ := strconv.Atoi(m[2])
	offset := 0
	for i := 1; i < line; i++ {
		next := strings.IndexByte(content[offset:], '\n')
		if next < 0 {
			return len(content)
		}
		offset += next + 1
	}
	return min(offset+max(column-1, 0), len(content))
}

func jsonObject(doc map[string]any, key string) map[string]any {
	if doc == nil {
		return nil
	}
	obj, _ := doc[key].(map[string]any)
	return obj
}
