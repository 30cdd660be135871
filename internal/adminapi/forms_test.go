package adminapi

import (
	"errors"
	"net/url"
	"testing"

	"github.com/shopkite/catalog/internal/domain"
)

func TestFormFloatPtrEmptyMeansNull(t *testing.T) {
	form := url.Values{"old_price": {""}}
	v, present, err := formFloatPtr(form, "old_price", "oldPrice")
	if err != nil || !present || v != nil {
		t.Fatalf("got v=%v present=%v err=%v, want nil/true/nil", v, present, err)
	}
}

func TestFormFloatPtrAlias(t *testing.T) {
	form := url.Values{"oldPrice": {"19.90"}}
	v, present, err := formFloatPtr(form, "old_price", "oldPrice")
	if err != nil || !present || v == nil || *v != 19.90 {
		t.Fatalf("got v=%v present=%v err=%v", v, present, err)
	}
}

func TestFormCoercionFailureIsBadInput(t *testing.T) {
	form := url.Values{"quantity": {"many"}}
	if _, _, err := formInt(form, "quantity"); !errors.Is(err, domain.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
	form = url.Values{"isActive": {"maybe"}}
	if _, _, err := formBool(form, "isActive"); !errors.Is(err, domain.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
}

func TestFormAbsentFieldIsNotPresent(t *testing.T) {
	form := url.Values{}
	if _, present, err := formInt(form, "quantity"); present || err != nil {
		t.Fatalf("absent field reported present (err=%v)", err)
	}
	if _, err := requireInt(form, "quantity"); !errors.Is(err, domain.ErrBadInput) {
		t.Fatalf("required absent field did not fail: %v", err)
	}
}
