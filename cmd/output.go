package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/honganh1206/guideme/utils"
)

var errNoResponse = errors.New("no usable response from the GuideMe API (disabled, unreachable or rejected)")

// flatten turns a decoded JSON object into sorted "a.b" -> value rows.
func flatten(prefix string, v any, rows map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, inner, rows)
		}
	case nil:
		rows[prefix] = ""
	case string:
		if strings.HasSuffix(prefix, "_at") {
			rows[prefix] = utils.HumanTime(val)
		} else {
			rows[prefix] = val
		}
	default:
		data, err := json.Marshal(val)
		if err != nil {
			rows[prefix] = fmt.Sprint(val)
			return
		}
		rows[prefix] = string(data)
	}
}

func responseRows(resp any) [][]string {
	flat := make(map[string]string)
	flatten("", resp, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, flat[k]})
	}
	return rows
}

func printTable(w io.Writer, resp any) error {
	if resp == nil {
		return errNoResponse
	}

	utils.RenderTable(w, []string{"Field", "Value"}, responseRows(resp))
	return nil
}

func printBox(w io.Writer, title string, resp any) error {
	if resp == nil {
		return errNoResponse
	}

	rows := responseRows(resp)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-16s %s", row[0]+":", row[1]))
	}

	fmt.Fprint(w, utils.RenderBox(title, lines))
	return nil
}

// chatReply extracts the reply text, falling back to the raw JSON.
func chatReply(resp any) (string, error) {
	if resp == nil {
		return "", errNoResponse
	}

	if m, ok := resp.(map[string]any); ok {
		if reply, ok := m["reply"].(string); ok {
			return reply, nil
		}
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
