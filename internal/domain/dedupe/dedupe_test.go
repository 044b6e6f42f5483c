package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/algomate/insights/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithInitialCapacity(8))

		Convey("When an identity is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "skill|Master Heap")

			Convey("Then it should not have been seen before", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report it as seen", func() {
				So(d.SeenAndRecord(ctx, "skill|Master Heap"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When distinct identities are recorded concurrently", func() {
			const goroutines = 16
			var wg sync.WaitGroup
			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					d.SeenAndRecord(ctx, fmt.Sprintf("practice|rec-%d", n))
				}(i)
			}
			wg.Wait()

			Convey("Then every identity should be recorded exactly once", func() {
				So(d.Size(), ShouldEqual, goroutines)
			})
		})
	})
}
