package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/newsbot/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("When a path is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "/paper/a")
			second := d.SeenAndRecord(ctx, "/paper/a")

			Convey("Then only the second call reports it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a deduper bounded to two keys", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))

		Convey("When a third key arrives", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.SeenAndRecord(ctx, "c")

			Convey("Then the oldest key is forgotten", func() {
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})
	})

	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					d.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i))
				}
			}()
		}
		wg.Wait()

		Convey("Then every key is stored once", func() {
			So(d.Size(), ShouldEqual, 100)
		})
	})
}
