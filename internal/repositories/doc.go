// package repositories provides persistence layer implementations for all model types.
//
// The directory repository caches harvested playlist metadata and serves the
// case-insensitive name→id lookups that bulk jobs resolve against.
package repositories
