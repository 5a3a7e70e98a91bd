package store

// Schema DDL for the annotation store. The column layout and index names
// are a migration contract: databases written by earlier deployments must
// open unchanged, so this block is never edited, only appended to.
//
// annotations is an append-only event log; rowid is the annotation
// identifier. features holds geometry snapshots per (resource, item);
// deleted is null while a row is current and is set to the superseding
// annotation's rowid exactly once.
//
// Every statement is idempotent, so concurrent opens racing to create a
// fresh database all succeed.
const schemaSQL = `
create table if not exists annotations (resource text, item text, created text, orcid text, creator text, annotation text);
create index if not exists annotations_index on annotations(resource, item, created, orcid);
create table if not exists features (resource text, item text, deleted text, annotation text, feature text);
create index if not exists features_index on features(resource, item, deleted);
`
