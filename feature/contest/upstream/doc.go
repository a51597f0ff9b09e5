// Package upstream fetches contest listings from external providers.
//
// # Providers
//
//   - codeforces: the contest.list JSON API, decoded with encoding/json.
//   - codechef: the contest list API; present, future and optionally past arrays are read with gjson.
//   - generic: any endpoint returning a JSON array of contest objects, located by a gjson path.
//
// Records are returned as RawRecord values, a closed union of CodeforcesRecord,
// CodeChefRecord and GenericRecord, and are validated by the contest normalizer.
//
// # Fetcher
//
// FetchAll returns a lazy iter.Seq2 over one provider's listing. Requests carry the
// configured timeout, transient failures (network errors, 429, 5xx) are retried with
// exponential backoff, and concurrent fetches of the same provider are collapsed
// with singleflight. Failures surface as *FetchError.
package upstream
