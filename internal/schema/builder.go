package schema

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Build packs records into a GameSchema. Record i goes to block i/32+1 at
// bit i%32; blocks are created on first use, so zero records yield an empty
// Stats map. Localization tokens depend only on the slot, which makes
// rebuilding from the same input idempotent.
func Build(appID int64, name string, version uint32, records []AchievementRecord, language string) *GameSchema {
	if language == "" {
		language = DefaultLanguage
	}

	g := &GameSchema{
		AppID:   strconv.FormatInt(appID, 10),
		Name:    name,
		Version: version,
		Stats:   make(map[string]*StatBlock),
	}

	for i, rec := range records {
		blockNum := i/BitsPerBlock + 1
		bitIndex := i % BitsPerBlock
		blockID := strconv.Itoa(blockNum)

		block, ok := g.Stats[blockID]
		if !ok {
			block = &StatBlock{
				Type: BitfieldType,
				ID:   blockID,
				Bits: make(map[string]*AchievementBitDef),
			}
			g.Stats[blockID] = block
		}

		block.Bits[strconv.Itoa(bitIndex)] = &AchievementBitDef{
			APIName:  rec.APIName,
			BitIndex: bitIndex,
			Display: Display{
				Name: LocalizedText{
					Text:  map[string]string{language: rec.DisplayName},
					Token: Token(blockNum, bitIndex, "NAME"),
				},
				Desc: LocalizedText{
					Text:  map[string]string{language: rec.Description},
					Token: Token(blockNum, bitIndex, "DESC"),
				},
				Hidden:   hiddenFlag(rec.Hidden),
				Icon:     IconFilename(rec.IconURL),
				IconGray: IconFilename(rec.IconGrayURL),
			},
		}
	}

	return g
}

// Token returns the synthetic localization token for a slot, for example
// NEW_ACHIEVEMENT_1_0_NAME.
func Token(block, bit int, kind string) string {
	return fmt.Sprintf("NEW_ACHIEVEMENT_%d_%d_%s", block, bit, kind)
}

// IconFilename reduces an icon URL to its final path segment, dropping any
// query string or fragment.
func IconFilename(raw string) string {
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		base := path.Base(u.Path)
		if base != "/" && base != "." {
			return base
		}
		return ""
	}
	s := raw
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func hiddenFlag(hidden bool) string {
	if hidden {
		return "1"
	}
	return "0"
}
