package typechecker

import (
	"fmt"
	"sync"
	"testing"

	"easyhue/compiler-go/pkg/ast"
)

func TestIndependentCheckersRunInParallel(t *testing.T) {
	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var value ast.Expression = ast.Int(int64(i))
			if i%2 == 1 {
				value = ast.Str(fmt.Sprintf("worker-%d", i))
			}
			program := ast.Prog(
				ast.Fn("f", nil, "", ast.Blk()),
				ast.Assign("shared", value),
			)
			env, err := New().CheckProgram(program)
			if err != nil {
				errs <- err
				return
			}
			typ, _ := env.LookupVariable("shared")
			want := Int
			if i%2 == 1 {
				want = String
			}
			if typ != want {
				errs <- fmt.Errorf("worker %d: shared has type %s", i, typeName(typ))
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
