package schema

import (
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/internal/vdf"
)

// Wire keys used by the Steam client.
const (
	keyGameName = "gamename"
	keyVersion  = "version"
	keyStats    = "stats"
	keyType     = "type"
	keyID       = "id"
	keyBits     = "bits"
	keyName     = "name"
	keyBit      = "bit"
	keyDisplay  = "display"
	keyDesc     = "desc"
	keyToken    = "token"
	keyHidden   = "hidden"
	keyIcon     = "icon"
	keyIconGray = "icon_gray"
)

// ErrInvalidSchema indicates a decoded tree does not have the shape of a schema.
var ErrInvalidSchema = errors.New("invalid schema tree")

// Tree converts the schema to its wire tree. AppIDs, block IDs and bit
// indexes are emitted in numeric order. String keys are written as strings
// and the bit index as int32, the types the Steam client expects.
func (s Schema) Tree() *vdf.Map {
	root := vdf.NewMap()
	for _, appID := range sortedNumeric(s) {
		root.Set(appID, vdf.MapValue(s[appID].Tree()))
	}
	return root
}

// Tree converts one game to the map stored under its AppID.
func (g *GameSchema) Tree() *vdf.Map {
	m := vdf.NewMap()
	m.Set(keyGameName, vdf.String(g.Name))
	m.Set(keyVersion, vdf.String(strconv.FormatUint(uint64(g.Version), 10)))

	stats := m.EnsureChild(keyStats)
	for _, id := range sortedNumeric(g.Stats) {
		block := g.Stats[id]
		bm := vdf.NewMap()
		bm.Set(keyType, vdf.String(block.Type))
		bm.Set(keyID, vdf.String(block.ID))
		bits := bm.EnsureChild(keyBits)
		for _, bit := range sortedNumeric(block.Bits) {
			bits.Set(bit, vdf.MapValue(block.Bits[bit].tree()))
		}
		stats.Set(id, vdf.MapValue(bm))
	}
	return m
}

func (a *AchievementBitDef) tree() *vdf.Map {
	m := vdf.NewMap()
	m.Set(keyName, vdf.String(a.APIName))
	m.Set(keyBit, vdf.Int32(int32(a.BitIndex)))

	d := m.EnsureChild(keyDisplay)
	d.Set(keyName, vdf.MapValue(a.Display.Name.tree()))
	d.Set(keyDesc, vdf.MapValue(a.Display.Desc.tree()))
	d.Set(keyHidden, vdf.String(a.Display.Hidden))
	d.Set(keyIcon, vdf.String(a.Display.Icon))
	d.Set(keyIconGray, vdf.String(a.Display.IconGray))
	return m
}

func (l LocalizedText) tree() *vdf.Map {
	m := vdf.NewMap()
	langs := make([]string, 0, len(l.Text))
	for lang := range l.Text {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	for _, lang := range langs {
		m.Set(lang, vdf.String(l.Text[lang]))
	}
	m.Set(keyToken, vdf.String(l.Token))
	return m
}

// FromTree reads a typed schema out of a decoded wire tree. Keys the model
// does not know are ignored; missing or mistyped required keys are reported
// as ErrInvalidSchema.
func FromTree(root *vdf.Map) (Schema, error) {
	s := make(Schema, root.Len())
	for _, e := range root.Entries() {
		gm := e.Value.Map()
		if gm == nil {
			return nil, errors.Wrapf(ErrInvalidSchema, "app %q is not a map", e.Key)
		}
		g, err := gameFromTree(e.Key, gm)
		if err != nil {
			return nil, err
		}
		s[e.Key] = g
	}
	return s, nil
}

func gameFromTree(appID string, m *vdf.Map) (*GameSchema, error) {
	g := &GameSchema{AppID: appID, Stats: make(map[string]*StatBlock)}
	g.Name, _ = m.GetString(keyGameName)

	if v, ok := m.Get(keyVersion); ok {
		version, err := parseUint32(v)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSchema, "app %s: version: %v", appID, err)
		}
		g.Version = version
	}

	v, ok := m.Get(keyStats)
	if !ok {
		return g, nil
	}
	stats := v.Map()
	if stats == nil {
		return nil, errors.Wrapf(ErrInvalidSchema, "app %s: stats is not a map", appID)
	}

	for _, e := range stats.Entries() {
		bm := e.Value.Map()
		if bm == nil {
			return nil, errors.Wrapf(ErrInvalidSchema, "app %s: stat %s is not a map", appID, e.Key)
		}
		block := &StatBlock{ID: e.Key, Bits: make(map[string]*AchievementBitDef)}
		block.Type, _ = bm.GetString(keyType)
		if id, ok := bm.GetString(keyID); ok {
			block.ID = id
		}
		if bits := bm.Child(keyBits); bits != nil {
			for _, be := range bits.Entries() {
				am := be.Value.Map()
				if am == nil {
					return nil, errors.Wrapf(ErrInvalidSchema, "app %s: stat %s bit %s is not a map", appID, e.Key, be.Key)
				}
				def, err := bitFromTree(be.Key, am)
				if err != nil {
					return nil, errors.Wrapf(err, "app %s: stat %s bit %s", appID, e.Key, be.Key)
				}
				block.Bits[be.Key] = def
			}
		}
		g.Stats[e.Key] = block
	}
	return g, nil
}

func bitFromTree(key string, m *vdf.Map) (*AchievementBitDef, error) {
	a := &AchievementBitDef{}
	a.APIName, _ = m.GetString(keyName)

	if v, ok := m.Get(keyBit); ok {
		n, err := parseUint32(v)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSchema, "bit: %v", err)
		}
		a.BitIndex = int(n)
	} else {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSchema, "bit index %q", key)
		}
		a.BitIndex = n
	}

	if d := m.Child(keyDisplay); d != nil {
		a.Display.Name = localizedFromTree(d.Child(keyName))
		a.Display.Desc = localizedFromTree(d.Child(keyDesc))
		a.Display.Hidden, _ = d.GetString(keyHidden)
		a.Display.Icon, _ = d.GetString(keyIcon)
		a.Display.IconGray, _ = d.GetString(keyIconGray)
	}
	return a, nil
}

func localizedFromTree(m *vdf.Map) LocalizedText {
	l := LocalizedText{Text: make(map[string]string)}
	for _, e := range m.Entries() {
		if e.Value.IsMap() {
			continue
		}
		if e.Key == keyToken {
			l.Token = e.Value.Text()
			continue
		}
		l.Text[e.Key] = e.Value.Text()
	}
	return l
}

func parseUint32(v vdf.Value) (uint32, error) {
	if n, ok := v.Int(); ok {
		if n < 0 || n > int64(^uint32(0)) {
			return 0, errors.Newf("%d out of range", n)
		}
		return uint32(n), nil
	}
	if v.Kind != vdf.KindString {
		return 0, errors.Newf("unexpected %s value", v.Kind)
	}
	if v.Str() == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v.Str(), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
