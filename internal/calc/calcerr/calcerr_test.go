package calcerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestStatus(tst *testing.T) {

	//verbose()
	chk.PrintTitle("status mapping")

	got := []int{
		Status(nil),
		Status(Validation("length %g", -1.0)),
		Status(NotFound("no casing at %g m", 10.0)),
		Status(Geometry("annulus closed")),
		Status(fmt.Errorf("wrapped: %w", Geometry("annulus closed"))),
		Status(errors.New("db down")),
	}
	want := []int{
		http.StatusOK,
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusUnprocessableEntity,
		http.StatusUnprocessableEntity,
		http.StatusInternalServerError,
	}
	chk.Ints(tst, "status", got, want)
}

func TestMessage(tst *testing.T) {
	err := NotFound("no casing at %.1f m", 12.5)
	chk.String(tst, err.Error(), "not found: no casing at 12.5 m")
	if !errors.Is(err, ErrNotFound) || errors.Is(err, ErrGeometry) {
		tst.Errorf("wrong kind for %v", err)
	}
}

func verbose() {
	chk.Verbose = true
}
