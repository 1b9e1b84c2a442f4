// Package assetidx keeps a persistent full text index over the aggregated
// asset lists so repeated searches don't have to rescan the raw lists. The
// index lives on disk and is rebuilt only when the aggregated entries
// change.
package assetidx

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"

	"github.com/astrolabe-cli/astrolabe/assetlist"
)

var (
	assetIndex *AssetIndex
	once       sync.Once
)

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr.HomeDir
}

// AssetDesc is one indexed asset: its canonical id and the searchable text
// built from code, name and domain.
type AssetDesc struct {
	ID   string
	Desc string
}

type AssetIndex struct {
	index bleve.Index
	dir   string
	Hash  string
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName

	defaultMapping := bleve.NewDocumentMapping()
	defaultMapping.AddFieldMappingsAt("desc", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", defaultMapping)

	indexMapping.TypeField = "type"
	indexMapping.DefaultAnalyzer = "en"

	return indexMapping
}

// NewAssetIndex opens the shared index under ~/.astrolabe, creating it on
// first use.
func NewAssetIndex() (*AssetIndex, error) {
	var resError error
	once.Do(func() {
		assetIndex, resError = NewAssetIndexAt(filepath.Join(getHomeDir(), ".astrolabe"))
	})
	return assetIndex, resError
}

// NewAssetIndexAt opens an index rooted at dir. Tests use it with a temp
// dir so they don't touch the shared one.
func NewAssetIndexAt(dir string) (*AssetIndex, error) {
	result := &AssetIndex{dir: dir}
	content, err := os.ReadFile(result.hashPath())
	if err == nil {
		// a broken sidecar just means a full reindex on the next update
		json.Unmarshal(content, result)
	}

	index, err := bleve.Open(result.dataPath())
	if err != nil && err != bleve.ErrorIndexPathDoesNotExist {
		return nil, err
	}
	if err == bleve.ErrorIndexPathDoesNotExist {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		index, err = bleve.New(result.dataPath(), buildIndexMapping())
		if err != nil {
			return nil, err
		}
		result.Hash = ""
	}
	result.index = index
	return result, nil
}

func (ai *AssetIndex) hashPath() string {
	return filepath.Join(ai.dir, "assetidx.json")
}

func (ai *AssetIndex) dataPath() string {
	return filepath.Join(ai.dir, "assets.bleve")
}

// Update reindexes the aggregated entries if they changed since the last
// run. Unchanged entries make it a no-op.
func (ai *AssetIndex) Update(entries []assetlist.Entry) error {
	h := entriesHash(entries)
	if ai.Hash == h {
		return nil
	}
	if err := ai.indexEntries(entries); err != nil {
		return err
	}
	ai.Hash = h
	return ai.persist()
}

func (ai *AssetIndex) persist() error {
	jsonData, err := json.MarshalIndent(ai, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ai.hashPath(), jsonData, 0644)
}

// Close releases the underlying index files.
func (ai *AssetIndex) Close() error {
	return ai.index.Close()
}

// Search runs a phrase match and a fuzzy match over the indexed assets and
// returns the hits with their scores.
func (ai *AssetIndex) Search(input string) ([]AssetDesc, []int) {
	matchQuery := bleve.NewMatchPhraseQuery(input)
	fuzzyQuery := bleve.NewFuzzyQuery(input)
	fuzzyQuery.Fuzziness = 1
	query := bleve.NewDisjunctionQuery(matchQuery, fuzzyQuery)
	request := bleve.NewSearchRequest(query)
	searchResults, err := ai.index.Search(request)
	if err != nil {
		fmt.Printf("Asset index search failed: %s\n", err)
		return []AssetDesc{}, []int{}
	}

	results := []AssetDesc{}
	resultScores := []int{}
	for _, searchResult := range searchResults.Hits {
		doc, err := ai.index.Document(searchResult.ID)
		if err != nil {
			fmt.Printf("getting asset data for %s failed: %s. Ignored.", searchResult.ID, err)
			continue
		}
		resultScores = append(resultScores, int(searchResult.Score*1000000))
		results = append(results, AssetDesc{
			ID:   string(doc.Fields[0].Value()),
			Desc: string(doc.Fields[1].Value()),
		})
	}
	return results, resultScores
}

func (ai *AssetIndex) indexEntries(entries []assetlist.Entry) error {
	batch := ai.index.NewBatch()
	batchCount := 0
	for _, entry := range entries {
		desc := entryDesc(entry)
		batch.Index(desc.ID, desc)
		batchCount++

		if batchCount >= 1000 {
			if err := ai.index.Batch(batch); err != nil {
				return err
			}
			batch = ai.index.NewBatch()
			batchCount = 0
		}
	}
	// flush the last batch
	if batchCount > 0 {
		if err := ai.index.Batch(batch); err != nil {
			return err
		}
	}
	return nil
}

func entryDesc(entry assetlist.Entry) AssetDesc {
	id := entry.ContractID
	if id == "" {
		id = fmt.Sprintf("%s-%s", entry.Code, entry.Issuer)
	}
	parts := []string{entry.Code}
	if entry.Domain != "" {
		parts = append(parts, entry.Domain)
	}
	return AssetDesc{
		ID:   id,
		Desc: strings.Join(parts, " "),
	}
}

func entriesHash(entries []assetlist.Entry) string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		desc := entryDesc(entry)
		ids = append(ids, desc.ID+" "+desc.Desc)
	}
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(strings.Join(ids, "\n")))
	return fmt.Sprintf("%x", sum)
}
