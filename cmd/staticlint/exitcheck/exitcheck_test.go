package exitcheck

import (
	"go/ast"
	"go/types"
	"testing"

	"golang.org/x/tools/go/analysis"
)

func callTo(pkgPath, pkgName, fn string) (*ast.CallExpr, *analysis.Pass) {
	sel := &ast.SelectorExpr{
		X:   &ast.Ident{Name: pkgName},
		Sel: &ast.Ident{Name: fn},
	}
	call := &ast.CallExpr{Fun: sel}
	pass := &analysis.Pass{
		TypesInfo: &types.Info{
			Uses: map[*ast.Ident]types.Object{
				sel.Sel: types.NewFunc(0, types.NewPackage(pkgPath, pkgName), fn,
					types.NewSignatureType(nil, nil, nil, nil, nil, false)),
			},
		},
	}
	return call, pass
}

func TestIsExitCall(t *testing.T) {
	tests := []struct {
		name    string
		pkgPath string
		pkgName string
		fn      string
		want    bool
	}{
		{"os.Exit", "os", "os", "Exit", true},
		{"fmt.Println", "fmt", "fmt", "Println", false},
		{"other package named os", "example.com/os", "os", "Exit", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			call, pass := callTo(tc.pkgPath, tc.pkgName, tc.fn)
			if got := isExitCall(pass, call); got != tc.want {
				t.Errorf("isExitCall = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIgnoresNonMainPackages(t *testing.T) {
	pass := &analysis.Pass{Pkg: types.NewPackage("example.com/lib", "lib")}
	if _, err := run(pass); err != nil {
		t.Errorf("run returned %v for a non-main package", err)
	}
}
