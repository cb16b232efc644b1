package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

const maxDataLine = 64 * 1024

var (
	reSenseKey  = regexp.MustCompile(`^(.+)\.([nv])\.(\d+)$`)
	reOffsetKey = regexp.MustCompile(`^([nv]):(\d+)$`)

	posFile = map[string]string{"n": "noun", "v": "verb"}
)

// WordNetDB 直接讀取 WordNet 資料庫檔（index.noun/verb、data.noun/verb）。
// 根概念以 "cook.v.01" 形式查詢，下位詞以 "v:<offset>" 形式回傳。
type WordNetDB struct {
	dir  string
	mu   sync.Mutex
	data map[string]*os.File
}

// OpenWordNet 開啟目錄下的資料檔
func OpenWordNet(dir string) (*WordNetDB, error) {
	db := &WordNetDB{dir: dir, data: map[string]*os.File{}}
	for pos, name := range posFile {
		f, err := os.Open(filepath.Join(dir, "data."+name))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("open wordnet data file: %w", err)
		}
		db.data[pos] = f
	}
	return db, nil
}

// Close 關閉所有檔案
func (db *WordNetDB) Close() error {
	var errs []error
	for _, f := range db.data {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

// Synset 實作 LexicalDB
func (db *WordNetDB) Synset(id string) (*Synset, error) {
	if m := reOffsetKey.FindStringSubmatch(id); m != nil {
		off, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSynsetNotFound, id)
		}
		return db.readSynset(m[1], off)
	}

	m := reSenseKey.FindStringSubmatch(id)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed id %q", ErrSynsetNotFound, id)
	}
	sense, _ := strconv.Atoi(m[3])
	off, err := db.lookupIndex(m[1], m[2], sense)
	if err != nil {
		return nil, err
	}
	s, err := db.readSynset(m[2], off)
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

// lookupIndex 在 index.<pos> 中找 lemma 的第 sense 個 synset offset
func (db *WordNetDB) lookupIndex(lemma, pos string, sense int) (int64, error) {
	f, err := os.Open(filepath.Join(db.dir, "index."+posFile[pos]))
	if err != nil {
		return 0, fmt.Errorf("open wordnet index: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	prefix := lemma + " " + pos + " "
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		// lemma pos synset_cnt p_cnt [ptr_symbol...] sense_cnt tagsense_cnt synset_offset...
		fields := strings.Fields(line)
		if len(fields) < 4 {
			break
		}
		synsetCnt, _ := strconv.Atoi(fields[2])
		pCnt, _ := strconv.Atoi(fields[3])
		start := 4 + pCnt + 2
		if sense < 1 || sense > synsetCnt || start+sense-1 >= len(fields) {
			break
		}
		return strconv.ParseInt(fields[start+sense-1], 10, 64)
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("scan wordnet index: %w", err)
	}
	return 0, fmt.Errorf("%w: %s.%s.%02d", ErrSynsetNotFound, lemma, pos, sense)
}

// readSynset 讀取 data.<pos> 中 offset 位置的一行
func (db *WordNetDB) readSynset(pos string, off int64) (*Synset, error) {
	db.mu.Lock()
	f, ok := db.data[pos]
	db.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: unsupported pos %q", ErrSynsetNotFound, pos)
	}

	line, err := bufio.NewReader(io.NewSectionReader(f, off, maxDataLine)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read wordnet data: %w", err)
	}
	return parseDataLine(pos, line)
}

// parseDataLine 解析：offset lex_filenum ss_type w_cnt word lex_id ... p_cnt ptr... | gloss
func parseDataLine(pos, line string) (*Synset, error) {
	if i := strings.Index(line, " | "); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: truncated record", ErrSynsetNotFound)
	}

	s := &Synset{ID: pos + ":" + fields[0]}
	wCnt, err := strconv.ParseInt(fields[3], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("parse word count: %w", err)
	}
	i := 4
	for w := 0; w < int(wCnt) && i+1 < len(fields); w++ {
		s.Lemmas = append(s.Lemmas, fields[i])
		i += 2
	}
	if i >= len(fields) {
		return s, nil
	}

	pCnt, err := strconv.Atoi(fields[i])
	if err != nil {
		return nil, fmt.Errorf("parse pointer count: %w", err)
	}
	i++
	for p := 0; p < pCnt && i+3 < len(fields); p++ {
		symbol, target, targetPos := fields[i], fields[i+1], fields[i+2]
		if (symbol == "~" || symbol == "~i") && (targetPos == "n" || targetPos == "v") {
			s.Hyponyms = append(s.Hyponyms, targetPos+":"+target)
		}
		i += 4
	}
	return s, nil
}
