package frontdesk

import (
	"context"
	"errors"
	"time"

	"clinic-desk/core/database"
	"clinic-desk/core/logger"
	"clinic-desk/core/shard"
	"clinic-desk/core/visitid"
	"clinic-desk/feature/person"
	"clinic-desk/feature/treatment"
	"clinic-desk/feature/waitlist"

	"go.uber.org/zap"
)

// CheckIn is the result of a successful check-in.
type CheckIn struct {
	Entry  waitlist.Entry   `json:"entry"`
	Record treatment.Record `json:"record"`
}

// DeleteResult reports what a cascading delete removed from the secondary store.
type DeleteResult struct {
	// Cascaded is false when the secondary delete failed and was only logged.
	Cascaded bool `json:"cascaded"`
	// Removed is the number of secondary rows removed.
	Removed int64 `json:"removed"`
}

// Synchronizer keeps the waiting list and the treatment log in step across
// their separate stores. Workflows touch one store at a time; there is no
// cross-store transaction.
type Synchronizer struct {
	stores     *database.StoreSet
	persons    *person.Repository
	waitlist   *waitlist.Repository
	treatments *treatment.Repository
	cfg        Config
	clock      visitid.Clock
	logger     *zap.Logger
}

// NewSynchronizer creates a synchronizer over stores. A nil clock uses the
// system clock in the configured time zone.
func NewSynchronizer(stores *database.StoreSet, cfg Config, clock visitid.Clock, l *zap.Logger) *Synchronizer {
	if clock == nil {
		clock = visitid.SystemClock{Location: cfg.Location()}
	}
	return &Synchronizer{
		stores:     stores,
		persons:    person.NewRepository(stores),
		waitlist:   waitlist.NewRepository(stores),
		treatments: treatment.NewRepository(stores),
		cfg:        cfg,
		clock:      clock,
		logger:     l,
	}
}

// Config returns the front-desk defaults in use.
func (s *Synchronizer) Config() Config {
	return s.cfg
}

// GetWaitingList returns the entries for date with display names joined
// from the person store.
func (s *Synchronizer) GetWaitingList(ctx context.Context, date string) ([]waitlist.Entry, error) {
	entries, err := s.waitlist.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	pcodes := make([]int64, 0, len(entries))
	for _, e := range entries {
		pcodes = append(pcodes, e.PCode)
	}
	names, err := s.persons.Names(ctx, pcodes)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].DisplayName = names[entries[i].PCode]
	}
	return entries, nil
}

// GetTreatmentLog returns the treatment records for date, optionally
// filtered by completion flag.
func (s *Synchronizer) GetTreatmentLog(ctx context.Context, date string, fin *string) ([]treatment.Record, error) {
	return s.treatments.ListByDate(ctx, date, fin)
}

// CreateCheckIn puts a person on the waiting list for date and opens the
// matching treatment record. If the treatment insert fails the wait entry
// is kept and a *PartialCreateError is returned.
func (s *Synchronizer) CreateCheckIn(ctx context.Context, pcode int64, date string) (*CheckIn, error) {
	snap, err := s.persons.Snapshot(ctx, pcode)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	waitTable, err := shard.Resolve(shard.WaitList, date)
	if err != nil {
		return nil, err
	}
	treatmentTable := waitTable.Counterpart()

	ids, err := visitid.Generate(date, now)
	if err != nil {
		return nil, err
	}

	assignment := s.cfg.Assignment()
	if err := s.waitlist.Insert(ctx, pcode, ids.Date, ids, assignment); err != nil {
		s.logFailure("Check-in rejected", err, pcode, ids.Date)
		return nil, err
	}

	rec := s.checkInRecord(snap, ids.Date, now)
	if _, err := s.treatments.Insert(ctx, &rec); err != nil {
		partial := &PartialCreateError{
			PCode:          pcode,
			VisitDate:      ids.Date,
			WaitTable:      waitTable.Name(),
			TreatmentTable: treatmentTable.Name(),
			Err:            err,
		}
		s.logFailure("Check-in left without treatment record", partial, pcode, ids.Date)
		return nil, partial
	}

	s.logger.Info("Patient checked in", append(logger.Visit(pcode, ids.Date),
		zap.String("resid1", ids.Timestamp),
		zap.Int64("seq", rec.Seq))...)

	return &CheckIn{
		Entry: waitlist.Entry{
			PCode:       pcode,
			VisitDate:   database.Date(ids.Date),
			ResID1:      ids.Timestamp,
			ResID2:      ids.Date,
			RoomCode:    assignment.RoomCode,
			RoomName:    assignment.RoomName,
			DeptCode:    assignment.DeptCode,
			DeptName:    assignment.DeptName,
			DoctorCode:  assignment.DoctorCode,
			DoctorName:  assignment.DoctorName,
			DisplayName: snap.Name,
		},
		Record: rec,
	}, nil
}

// checkInRecord builds the treatment record opened by a check-in.
func (s *Synchronizer) checkInRecord(snap *person.Snapshot, date string, now time.Time) treatment.Record {
	visitTime := now
	return treatment.Record{
		PCode:     snap.PCode,
		VisitDate: database.Date(date),
		VisitTime: &visitTime,
		PName:     snap.Name,
		PBirth:    snap.Birth,
		Age:       person.Age(snap.Birth.String(), now),
		PhoneNum:  "",
		Sex:       snap.Sex,
		Serial:    1,
		N:         0,
		Gubun:     s.cfg.Category,
		Reserved:  "",
		Fin:       "",
	}
}

// RestoreTreatmentRecord opens the treatment record a check-in would have
// written for an existing wait entry. It is the repair path for a partial
// check-in.
func (s *Synchronizer) RestoreTreatmentRecord(ctx context.Context, pcode int64, date string) (*treatment.Record, error) {
	snap, err := s.persons.Snapshot(ctx, pcode)
	if err != nil {
		return nil, err
	}
	day, err := visitid.Canonical(date)
	if err != nil {
		return nil, err
	}

	rec := s.checkInRecord(snap, day, s.clock.Now())
	if _, err := s.treatments.Insert(ctx, &rec); err != nil {
		return nil, err
	}
	s.logger.Info("Treatment record restored", append(logger.Visit(pcode, day),
		zap.Int64("seq", rec.Seq))...)
	return &rec, nil
}

// RestoreWaitEntry recreates the wait entry for a visit that only has
// treatment records. Identifiers take their time of day from visitTime, or
// from the clock when it is nil.
func (s *Synchronizer) RestoreWaitEntry(ctx context.Context, pcode int64, date string, visitTime *time.Time) (visitid.IDs, error) {
	at := s.clock.Now()
	if visitTime != nil {
		at = *visitTime
	}
	ids, err := visitid.Generate(date, at)
	if err != nil {
		return visitid.IDs{}, err
	}
	if err := s.waitlist.Insert(ctx, pcode, ids.Date, ids, s.cfg.Assignment()); err != nil {
		return visitid.IDs{}, err
	}
	s.logger.Info("Wait entry restored", append(logger.Visit(pcode, ids.Date),
		zap.String("resid1", ids.Timestamp))...)
	return ids, nil
}

// UpdateWaitEntry replaces the identifiers of one wait entry. Empty
// identifiers are regenerated from the clock. The treatment log is not touched.
func (s *Synchronizer) UpdateWaitEntry(ctx context.Context, pcode int64, date string, ids visitid.IDs) (visitid.IDs, error) {
	if ids.Timestamp == "" || ids.Date == "" {
		generated, err := visitid.Generate(date, s.clock.Now())
		if err != nil {
			return visitid.IDs{}, err
		}
		if ids.Timestamp == "" {
			ids.Timestamp = generated.Timestamp
		}
		if ids.Date == "" {
			ids.Date = generated.Date
		}
	}
	if err := s.waitlist.UpdateIDs(ctx, pcode, date, ids); err != nil {
		return visitid.IDs{}, err
	}
	return ids, nil
}

// DeleteCheckIn removes a wait entry and then, best effort, the treatment
// records of the same visit. Only the wait entry delete can fail the call.
func (s *Synchronizer) DeleteCheckIn(ctx context.Context, pcode int64, date string) (*DeleteResult, error) {
	if err := s.waitlist.Delete(ctx, pcode, date); err != nil {
		return nil, err
	}

	removed, err := s.treatments.DeleteByVisit(ctx, pcode, date)
	if err != nil {
		s.logFailure("Cascade delete of treatment records failed", errors.Join(ErrCascadeFailure, err), pcode, date)
		return &DeleteResult{Cascaded: false}, nil
	}
	return &DeleteResult{Cascaded: true, Removed: removed}, nil
}

// CreateTreatmentRecord adds a treatment record without touching the
// waiting list. A record without a name is filled from the person store.
func (s *Synchronizer) CreateTreatmentRecord(ctx context.Context, rec *treatment.Record) (*treatment.Record, error) {
	now := s.clock.Now()
	if rec.VisitDate == "" {
		rec.VisitDate = database.Date(now.Format(visitid.DateLayout))
	}
	if rec.PName == "" {
		snap, err := s.persons.Snapshot(ctx, rec.PCode)
		if err != nil {
			return nil, err
		}
		rec.PName = snap.Name
		if rec.PBirth == "" {
			rec.PBirth = snap.Birth
		}
		if rec.Sex == "" {
			rec.Sex = snap.Sex
		}
	}
	if rec.Age == "" {
		rec.Age = person.Age(rec.PBirth.String(), now)
	}
	if rec.VisitTime == nil {
		visitTime := now
		rec.VisitTime = &visitTime
	}
	if rec.Serial == 0 {
		rec.Serial = 1
	}
	if rec.Gubun == "" {
		rec.Gubun = s.cfg.Category
	}
	if rec.Reserved == "" {
		rec.Reserved = "R"
	}
	if rec.Temperature == "" {
		rec.Temperature = "36.5"
	}

	if _, err := s.treatments.Insert(ctx, rec); err != nil {
		s.logFailure("Create treatment record failed", err, rec.PCode, rec.VisitDate.String())
		return nil, err
	}
	return rec, nil
}

// UpdateTreatmentRecord changes fields of one treatment record. The waiting
// list is not touched.
func (s *Synchronizer) UpdateTreatmentRecord(ctx context.Context, date string, seq int64, u treatment.Update) (*treatment.Record, error) {
	if err := s.treatments.Update(ctx, date, seq, u); err != nil {
		return nil, err
	}
	return s.treatments.Get(ctx, date, seq)
}

// DeleteTreatmentRecord removes a treatment record by sequence number and
// then, best effort, the wait entry of the same visit.
func (s *Synchronizer) DeleteTreatmentRecord(ctx context.Context, date string, seq int64) (*DeleteResult, error) {
	rec, err := s.treatments.Get(ctx, date, seq)
	if err != nil {
		return nil, err
	}
	if err := s.treatments.Delete(ctx, date, seq); err != nil {
		return nil, err
	}

	visit := rec.VisitDate.String()
	if err := s.waitlist.Delete(ctx, rec.PCode, visit); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.logger.Info("No wait entry to cascade", append(logger.Visit(rec.PCode, visit),
				zap.Int64("seq", seq))...)
			return &DeleteResult{Cascaded: true}, nil
		}
		s.logFailure("Cascade delete of wait entry failed", errors.Join(ErrCascadeFailure, err), rec.PCode, visit)
		return &DeleteResult{Cascaded: false}, nil
	}
	return &DeleteResult{Cascaded: true, Removed: 1}, nil
}

// logFailure logs err with the store context it carries.
func (s *Synchronizer) logFailure(msg string, err error, pcode int64, visitDate string) {
	s.logger.Error(msg, append(logger.Visit(pcode, visitDate), logger.Store(err)...)...)
}
