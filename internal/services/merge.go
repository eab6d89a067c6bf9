package services

// mergeOps describes how to reconcile one level of an owned child collection.
// Keys of zero never match.
type mergeOps[P any, I any] struct {
	persistedKey func(P) uint
	incomingKey  func(I) uint
	update       func(persisted P, incoming I, position int) error
	insert       func(incoming I, position int) error
	remove       func(persisted P) error
}

type mergeResult struct {
	Updated  int
	Inserted int
	Removed  int
}

// mergeChildren matches incoming items to persisted ones by key: matched pairs
// are updated, unmatched incoming items are inserted, and persisted items that
// no incoming item claimed are removed. A key claimed twice inserts the second
// occurrence.
func mergeChildren[P any, I any](persisted []P, incoming []I, ops mergeOps[P, I]) (mergeResult, error) {
	var res mergeResult

	index := make(map[uint]P, len(persisted))
	for _, p := range persisted {
		index[ops.persistedKey(p)] = p
	}

	claimed := make(map[uint]bool, len(incoming))
	for pos, in := range incoming {
		key := ops.incomingKey(in)
		if p, ok := index[key]; ok && key != 0 && !claimed[key] {
			claimed[key] = true
			if err := ops.update(p, in, pos); err != nil {
				return res, err
			}
			res.Updated++
			continue
		}
		if err := ops.insert(in, pos); err != nil {
			return res, err
		}
		res.Inserted++
	}

	for _, p := range persisted {
		if claimed[ops.persistedKey(p)] {
			continue
		}
		if err := ops.remove(p); err != nil {
			return res, err
		}
		res.Removed++
	}

	return res, nil
}
