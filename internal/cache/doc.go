package cache

// Package cache provides a bounded, size-aware LRU mapping used to cap the
// memory held by decoded animation frame sets. Eviction is pull-based: the
// cache culls itself on insert and access, entries never notify the cache.
