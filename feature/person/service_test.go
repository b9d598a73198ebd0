package person_test

import (
	"context"
	"testing"

	"clinic-desk/core/database/dbtest"
	"clinic-desk/feature/person"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func degradedFields(logs *observer.ObservedLogs) []string {
	var fields []string
	for _, e := range logs.FilterMessage("Text degraded on encode").All() {
		fields = append(fields, e.ContextMap()["field"].(string))
	}
	return fields
}

func TestService_CreateWarnsForEveryOpaqueColumn(t *testing.T) {
	stores := dbtest.Stores(t)
	core, logs := observer.New(zapcore.WarnLevel)
	svc := person.NewService(person.NewRepository(stores), zap.New(core))

	_, err := svc.Create(context.Background(), &person.Person{
		Name:      "홍길동",
		Relation2: "보호자 😀",
		Memo1:     "알레르기",
		Memo2:     "메모 🙂",
		SearchID:  "😀",
	})
	require.NoError(t, err)

	// searchid is transparent and never degrades through the codec.
	assert.Equal(t, []string{"memo2", "relation2"}, degradedFields(logs))
}

func TestService_UpdateWarnsForEveryOpaqueColumn(t *testing.T) {
	stores := dbtest.Stores(t)
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")
	core, logs := observer.New(zapcore.WarnLevel)
	svc := person.NewService(person.NewRepository(stores), zap.New(core))

	name, sex, memo1 := "홍길순", "여 😀", "알레르기 😀"
	_, err := svc.Update(context.Background(), 1, person.Update{Name: &name, Sex: &sex, Memo1: &memo1})
	require.NoError(t, err)

	assert.Equal(t, []string{"memo1", "sex"}, degradedFields(logs))
	for _, e := range logs.All() {
		assert.EqualValues(t, 1, e.ContextMap()["pcode"])
	}
}
