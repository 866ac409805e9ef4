// seed genera un script SQL con empleados, productos y stock inicial a partir de las
// exportaciones CSV del tableur del establecimiento (separador ';', Windows-1252 o UTF-8).
//
// Uso: go run ./cmd/seed employes.csv produits.csv [salida.sql]
// Por defecto escribe seed.sql en la raíz del módulo.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Uso: seed employes.csv produits.csv [salida.sql]")
		os.Exit(2)
	}
	outPath := filepath.Join(findModuleRoot(), "seed.sql")
	if len(os.Args) > 3 {
		outPath = os.Args[3]
	}

	employees, err := readFile(os.Args[1], readEmployees)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer empleados: %v\n", err)
		os.Exit(1)
	}
	products, err := readFile(os.Args[2], readProducts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer productos: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, employees, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d empleados, %d productos\n", outPath, len(employees), len(products))
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
