// Package wallets turns raw address-column values into canonical comparison
// keys.
//
// A Normalizer trims each record, drops values that fail the validity
// heuristic (empty, null sentinels such as "nan", or shorter than MinLength
// runes), and folds the survivors to lower case. Every source yields a
// SourceSet of distinct keys, while a DisplayForms map shared across the whole
// batch remembers the first original spelling seen for each key so results
// can be shown the way users pasted them.
//
// The heuristic is deliberately generic: it does not check base58 alphabets,
// checksums, or chain-specific lengths.
package wallets
