package data

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var ErrFundListMalformed = errors.New("fund list is not a JSON array")

// Fund is one entry of a fund list file.
type Fund struct {
	Code string `json:"code"`
	Name string `json:"name"`
	// Type is the category from the fund index, e.g. "指数型-股票". Not kept in list files.
	Type string `json:"type,omitempty"`
}

// LoadFunds reads "code, name" lines. Blank lines and lines starting with # are skipped;
// the name is optional.
func LoadFunds(filePath string) ([]Fund, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read funds file: %w", err)
	}
	defer f.Close()

	var out []Fund
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, name, _ := strings.Cut(line, ",")
		out = append(out, Fund{Code: strings.TrimSpace(code), Name: strings.TrimSpace(name)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse funds file: %w", err)
	}
	return out, nil
}

// SaveFunds writes funds in the format LoadFunds reads.
func SaveFunds(filePath string, funds []Fund) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# updated %s\n", time.Now().UTC().Format(time.RFC3339))
	for _, f := range funds {
		if f.Name == "" {
			fmt.Fprintf(&b, "%s\n", f.Code)
			continue
		}
		fmt.Fprintf(&b, "%s, %s\n", f.Code, f.Name)
	}
	if err := os.WriteFile(filePath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write funds file: %w", err)
	}
	return nil
}

// MergeFunds unions two lists by code, sorted by code. Names from update win
// unless they are empty.
func MergeFunds(existing, update []Fund) []Fund {
	byCode := make(map[string]Fund, len(existing)+len(update))
	for _, f := range existing {
		byCode[f.Code] = f
	}
	for _, f := range update {
		if old, ok := byCode[f.Code]; ok && f.Name == "" {
			f.Name = old.Name
		}
		byCode[f.Code] = f
	}

	out := make([]Fund, 0, len(byCode))
	for _, f := range byCode {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ExtractFundList parses fundcode_search.js:
// var r = [["000001","HXCZHH","华夏成长混合","混合型-灵活","HUAXIACHENGZHANGHUNHE"],...];
func ExtractFundList(js string) ([]Fund, error) {
	open := strings.Index(js, "[")
	end := strings.LastIndex(js, "]")
	if open == -1 || end < open {
		return nil, ErrFundListMalformed
	}

	var rows [][]string
	if err := json.Unmarshal([]byte(js[open:end+1]), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFundListMalformed, err)
	}
	out := make([]Fund, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 || row[0] == "" {
			continue
		}
		out = append(out, Fund{Code: row[0], Name: row[2], Type: row[3]})
	}
	return out, nil
}

// FilterFunds keeps funds whose type or name contains any of the keywords,
// case-insensitively. No keywords keeps everything.
func FilterFunds(funds []Fund, keywords []string) []Fund {
	if len(keywords) == 0 {
		return funds
	}
	out := make([]Fund, 0, len(funds))
	for _, f := range funds {
		hay := strings.ToLower(f.Type + " " + f.Name)
		for _, k := range keywords {
			if strings.Contains(hay, strings.ToLower(k)) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
