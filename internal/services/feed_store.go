package services

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Variant names one of the published feed documents.
type Variant string

const (
	VariantPublicAll     Variant = "public_all"
	VariantPublicLimited Variant = "public_limited"
	VariantPrivate       Variant = "private_ad_free"
)

var Variants = []Variant{VariantPublicAll, VariantPublicLimited, VariantPrivate}

// FeedDocument is a rendered feed. Version grows with every publication of the
// same variant so readers can tell documents apart.
type FeedDocument struct {
	Variant Variant
	XML     []byte
	Version int64
	BuiltAt time.Time
}

// FeedStore publishes feed documents. Put replaces a variant as a whole: readers
// observe either the previous document or the new one, never a mix.
type FeedStore interface {
	Put(ctx context.Context, doc FeedDocument) (FeedDocument, error)
	// Get returns ErrNotFound until the variant has been published once.
	Get(ctx context.Context, v Variant) (FeedDocument, error)
}

// MemoryFeedStore keeps documents in process memory. Each process that uses it
// builds and serves its own copy.
type MemoryFeedStore struct {
	docs     map[Variant]*atomic.Pointer[FeedDocument]
	versions map[Variant]*atomic.Int64
}

func NewMemoryFeedStore() *MemoryFeedStore {
	s := &MemoryFeedStore{
		docs:     make(map[Variant]*atomic.Pointer[FeedDocument], len(Variants)),
		versions: make(map[Variant]*atomic.Int64, len(Variants)),
	}
	for _, v := range Variants {
		s.docs[v] = new(atomic.Pointer[FeedDocument])
		s.versions[v] = new(atomic.Int64)
	}
	return s
}

func (s *MemoryFeedStore) Put(_ context.Context, doc FeedDocument) (FeedDocument, error) {
	slot, ok := s.docs[doc.Variant]
	if !ok {
		return FeedDocument{}, fmt.Errorf("%w: unknown feed variant %q", ErrBadRequest, doc.Variant)
	}
	doc.Version = s.versions[doc.Variant].Add(1)
	slot.Store(&doc)
	return doc, nil
}

func (s *MemoryFeedStore) Get(_ context.Context, v Variant) (FeedDocument, error) {
	slot, ok := s.docs[v]
	if !ok {
		return FeedDocument{}, ErrNotFound
	}
	doc := slot.Load()
	if doc == nil {
		return FeedDocument{}, ErrNotFound
	}
	return *doc, nil
}

const feedKeyPrefix = "feed:"

// publishFeed bumps the variant's version and stores the document under it in
// one step, so the stored version never goes backwards.
var publishFeed = redis.NewScript(`
local v = redis.call("INCR", KEYS[2])
redis.call("HSET", KEYS[1], "xml", ARGV[1], "version", v, "built_at", ARGV[2])
return v
`)

// RedisFeedStore shares documents between service instances. Each variant is one
// hash, written together with its version counter by a script.
type RedisFeedStore struct {
	client *redis.Client
}

func NewRedisFeedStore(client *redis.Client) *RedisFeedStore {
	return &RedisFeedStore{client: client}
}

func feedKey(v Variant) string {
	return feedKeyPrefix + string(v)
}

func (s *RedisFeedStore) Put(ctx context.Context, doc FeedDocument) (FeedDocument, error) {
	keys := []string{feedKey(doc.Variant), feedKey(doc.Variant) + ":version"}
	version, err := publishFeed.Run(ctx, s.client, keys, doc.XML, doc.BuiltAt.UnixNano()).Int64()
	if err != nil {
		return FeedDocument{}, fmt.Errorf("publish feed %s: %w", doc.Variant, err)
	}
	doc.Version = version
	return doc, nil
}

func (s *RedisFeedStore) Get(ctx context.Context, v Variant) (FeedDocument, error) {
	fields, err := s.client.HGetAll(ctx, feedKey(v)).Result()
	if err != nil {
		return FeedDocument{}, fmt.Errorf("load feed %s: %w", v, err)
	}
	if len(fields) == 0 {
		return FeedDocument{}, ErrNotFound
	}

	version, _ := strconv.ParseInt(fields["version"], 10, 64)
	builtAt, _ := strconv.ParseInt(fields["built_at"], 10, 64)
	return FeedDocument{
		Variant: v,
		XML:     []byte(fields["xml"]),
		Version: version,
		BuiltAt: time.Unix(0, builtAt),
	}, nil
}
