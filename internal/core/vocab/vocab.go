// Package vocab 建立烹飪方法（動詞）與廚具（名詞）的封閉詞彙表。
//
// 詞彙來自詞彙資料庫中根概念的下位詞閉包，再聯集人工整理的清單，
// 資料庫不完整或無法使用時仍有基本覆蓋。結果每個 process 只建立一次。
package vocab

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"recipe-assistant/internal/pkg/common"
)

// ErrSynsetNotFound 資料庫中沒有該 synset
var ErrSynsetNotFound = errors.New("vocab: synset not found")

var (
	// MethodRoots 烹飪方法的根概念
	MethodRoots = []string{"cook.v.01", "prepare.v.01", "mix.v.01", "heat.v.01"}
	// ToolRoots 廚具的根概念
	ToolRoots = []string{"kitchen_utensil.n.01", "tableware.n.01", "cookware.n.01", "utensil.n.01"}

	curatedMethods = []string{
		"bake", "boil", "fry", "grill", "saute", "sear", "roast", "toast",
		"stir", "mix", "combine", "whisk", "pour", "serve", "transfer",
		"knead", "slice", "chop", "mince", "fold", "season", "drain",
		"cover", "uncover", "simmer", "heat", "preheat", "blend", "spread",
		"coat", "melt", "beat", "cool", "press", "add", "remove",
	}
	curatedTools = []string{
		"oven", "pan", "pot", "skillet", "saucepan", "bowl", "whisk", "spatula",
		"knife", "fork", "spoon", "ladle", "tongs", "colander", "sieve", "grater",
		"blender", "mixer", "processor", "baking sheet", "baking dish", "sheet",
		"dish", "rack", "foil", "parchment", "thermometer", "board", "plate",
	}
)

// Synset 詞彙資料庫中的一個概念
type Synset struct {
	ID       string   `yaml:"-"`
	Lemmas   []string `yaml:"lemmas"`
	Hyponyms []string `yaml:"hyponyms"`
}

// LexicalDB 詞彙資料庫；Hyponyms 中的 id 可再次傳入 Synset 查詢
type LexicalDB interface {
	Synset(id string) (*Synset, error)
}

//go:embed snapshot.yaml
var snapshotYAML []byte

// SnapshotDB 內嵌的凍結快照，內容固定，建出的詞彙表可重現
type SnapshotDB struct {
	synsets map[string]*Synset
}

// LoadSnapshot 解析內嵌快照
func LoadSnapshot() (*SnapshotDB, error) {
	return parseSnapshot(snapshotYAML)
}

func parseSnapshot(data []byte) (*SnapshotDB, error) {
	var doc struct {
		Synsets map[string]*Synset `yaml:"synsets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse vocabulary snapshot: %w", err)
	}
	for id, s := range doc.Synsets {
		s.ID = id
	}
	return &SnapshotDB{synsets: doc.Synsets}, nil
}

// Synset 實作 LexicalDB
func (db *SnapshotDB) Synset(id string) (*Synset, error) {
	s, ok := db.synsets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSynsetNotFound, id)
	}
	return s, nil
}

// Vocabulary 方法與廚具詞彙表，全部小寫
type Vocabulary struct {
	methods map[string]struct{}
	tools   map[string]struct{}
	// methodList 依長度遞減，前綴比對時取最長者
	methodList []string
}

// NewVocabulary 直接由清單建立（測試與自訂詞彙用）
func NewVocabulary(methods, tools []string) *Vocabulary {
	v := &Vocabulary{methods: map[string]struct{}{}, tools: map[string]struct{}{}}
	for _, m := range methods {
		v.methods[strings.ToLower(m)] = struct{}{}
	}
	for _, t := range tools {
		v.tools[strings.ToLower(t)] = struct{}{}
	}
	v.methodList = sortedKeys(v.methods)
	sort.SliceStable(v.methodList, func(i, j int) bool { return len(v.methodList[i]) > len(v.methodList[j]) })
	return v
}

// IsMethod 是否為方法詞
func (v *Vocabulary) IsMethod(w string) bool {
	_, ok := v.methods[w]
	return ok
}

// IsTool 是否為廚具詞
func (v *Vocabulary) IsTool(w string) bool {
	_, ok := v.tools[w]
	return ok
}

// LongestMethodPrefix 最長且為 token 前綴的方法詞，長度至少 minLen
func (v *Vocabulary) LongestMethodPrefix(token string, minLen int) (string, bool) {
	for _, m := range v.methodList {
		if len(m) < minLen {
			break
		}
		if strings.HasPrefix(token, m) {
			return m, true
		}
	}
	return "", false
}

// Methods 排序後的方法詞
func (v *Vocabulary) Methods() []string { return sortedKeys(v.methods) }

// Tools 排序後的廚具詞
func (v *Vocabulary) Tools() []string { return sortedKeys(v.tools) }

// Build 走訪根概念的下位詞閉包並聯集人工清單。
// 找不到的根只記錄警告，不中斷建立。
func Build(db LexicalDB) *Vocabulary {
	var methods, tools []string

	for _, lemma := range collectLemmas(db, MethodRoots) {
		word := strings.ToLower(strings.ReplaceAll(lemma, "_", " "))
		if !strings.Contains(word, " ") {
			methods = append(methods, word)
		}
	}
	methods = append(methods, curatedMethods...)

	for _, lemma := range collectLemmas(db, ToolRoots) {
		tools = append(tools, strings.ToLower(strings.ReplaceAll(lemma, "_", " ")))
	}
	tools = append(tools, curatedTools...)

	v := NewVocabulary(methods, tools)
	common.LogDebug("詞彙表建立完成",
		zap.Int("methods", len(v.methods)),
		zap.Int("tools", len(v.tools)),
	)
	return v
}

// collectLemmas 所有根的下位詞（不含根本身）的 lemma
func collectLemmas(db LexicalDB, roots []string) []string {
	seen := map[string]bool{}
	var lemmas []string
	for _, rootID := range roots {
		root, err := db.Synset(rootID)
		if err != nil {
			common.LogWarn("詞彙根概念不存在", zap.String("synset", rootID), zap.Error(err))
			continue
		}
		stack := []*Synset{root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, id := range node.Hyponyms {
				if seen[id] {
					continue
				}
				seen[id] = true
				h, err := db.Synset(id)
				if err != nil {
					common.LogDebug("略過無法讀取的下位詞", zap.String("synset", id), zap.Error(err))
					continue
				}
				lemmas = append(lemmas, h.Lemmas...)
				stack = append(stack, h)
			}
		}
	}
	return lemmas
}

var (
	defaultOnce sync.Once
	defaultVoc  *Vocabulary

	loadMu    sync.Mutex
	loadCache = map[string]*Vocabulary{}
)

// Default 以內嵌快照建立的詞彙表，整個 process 共用
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		db, err := LoadSnapshot()
		if err != nil {
			common.LogError("內嵌詞彙快照解析失敗，僅使用人工清單", zap.Error(err))
			defaultVoc = NewVocabulary(curatedMethods, curatedTools)
			return
		}
		defaultVoc = Build(db)
	})
	return defaultVoc
}

// Load 依設定取得詞彙表：wordnetDir 為空時使用快照；
// 目錄無法開啟時退回快照。同一目錄只建立一次。
func Load(wordnetDir string) *Vocabulary {
	if wordnetDir == "" {
		return Default()
	}

	loadMu.Lock()
	defer loadMu.Unlock()
	if v, ok := loadCache[wordnetDir]; ok {
		return v
	}

	db, err := OpenWordNet(wordnetDir)
	if err != nil {
		common.LogWarn("WordNet 資料庫無法開啟，改用內嵌快照",
			zap.String("dir", wordnetDir),
			zap.Error(err),
		)
		return Default()
	}
	defer db.Close()

	v := Build(db)
	loadCache[wordnetDir] = v
	return v
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
