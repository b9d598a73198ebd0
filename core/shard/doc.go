// Package shard maps visit dates onto the year-sharded tables of the
// waiting-list and treatment-log stores.
//
// Both stores keep one physical table per calendar year, named by
// concatenating a fixed prefix with the four digit year:
//
//	WAIT2026  waiting list (store B)
//	MTR2026   treatment log (store C)
//
// Resolution is a pure function of the input. Every non-digit is stripped
// before the first four digits are taken as the year, so "20260211" and
// "2026-02-11" always land on the same table.
//
// # Usage
//
//	tbl, err := shard.Resolve(shard.WaitList, "2026-02-11")
//	if err != nil {
//	    return err
//	}
//	db.Table(tbl.Name())
//
// The reference table (PERSON) and its code counter (LAST) are not sharded
// and are exposed as constants.
package shard
