package cedent

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"

	"guha/bitset"
	"guha/dataset"
)

// MaskCache memoises literal value masks, the OR of the category masks a
// literal selects. Sequence and cut literals are rebuilt every time the
// enumerator comes back to their slot, so the cache saves most of the ORs.
type MaskCache struct {
	ds    *dataset.Dataset
	cache *lru.Cache
}

// NewMaskCache returns a cache holding up to size masks. A size of zero or
// less disables caching.
func NewMaskCache(ds *dataset.Dataset, size int) *MaskCache {
	mc := &MaskCache{ds: ds}
	if size <= 0 {
		return mc
	}
	cache, err := lru.New(size)
	if err != nil {
		log.WithError(err).WithField("size", size).Warn("Literal mask cache disabled.")
		return mc
	}
	mc.cache = cache
	return mc
}

// Mask returns the value mask of the literal attr(cats).
func (mc *MaskCache) Mask(attr int, cats []int) bitset.Mask {
	if mc.cache == nil {
		return mc.build(attr, cats)
	}
	key := cacheKey(attr, cats)
	if m, ok := mc.cache.Get(key); ok {
		return m.(bitset.Mask)
	}
	m := mc.build(attr, cats)
	mc.cache.Add(key, m)
	return m
}

// Len is the number of cached masks.
func (mc *MaskCache) Len() int {
	if mc.cache == nil {
		return 0
	}
	return mc.cache.Len()
}

func (mc *MaskCache) build(attr int, cats []int) bitset.Mask {
	v := mc.ds.Variable(attr)
	if len(cats) == 1 {
		return v.CategoryMasks[cats[0]]
	}
	m := bitset.New(mc.ds.RowCount)
	for _, c := range cats {
		m = m.Or(v.CategoryMasks[c])
	}
	return m
}

func cacheKey(attr int, cats []int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(attr))
	sb.WriteByte(':')
	for i, c := range cats {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}
