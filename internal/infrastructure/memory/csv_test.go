package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadDir_LeeDatos(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LocationsFile, "id,name,usage\n1,Bodega Principal,internal\n90,Proveedores,virtual\n")
	writeFile(t, dir, ProductsFile, "id,name,standard_price\n100,Tornillo,1.25\n")
	writeFile(t, dir, MovesFile,
		"id,product_id,location_id,location_dest_id,quantity,price_unit,date,state,lot_name,picking_type_code,reference\n"+
			"1,100,90,1,10,2,2024-01-01 09:00:00,confirmed,L-01,incoming,REC/0001\n"+
			"2,100,1,90,1,,2024-01-02,draft,,,\n")

	ds, err := LoadDir(dir, CSVOptions{})
	require.NoError(t, err)

	require.Len(t, ds.Locations, 2)
	assert.Equal(t, entity.LocationUsageVirtual, ds.Locations[1].Usage)
	require.Len(t, ds.Products, 1)
	assert.Equal(t, "1.25", ds.Products[0].StandardCost.String())
	require.Len(t, ds.Movements, 2)
	assert.Equal(t, entity.MovementKindPurchaseInbound, ds.Movements[0].Kind())
	assert.Equal(t, "L-01", ds.Movements[0].LotTag)
	assert.True(t, ds.Movements[1].UnitCost.IsZero())
	assert.False(t, ds.Movements[1].IsConfirmed())
	assert.Empty(t, ds.Quants, "quants.csv es opcional")
}

func TestLoadDir_Latin1(t *testing.T) {
	dir := t.TempDir()
	name, err := charmap.ISO8859_1.NewEncoder().String("id,name,usage\n3,Tránsito,transit\n")
	require.NoError(t, err)
	writeFile(t, dir, LocationsFile, name)
	writeFile(t, dir, ProductsFile, "id,name,standard_price\n")
	writeFile(t, dir, MovesFile, "id,product_id,location_id,location_dest_id,quantity,price_unit,date,state\n")

	ds, err := LoadDir(dir, CSVOptions{Latin1: true})
	require.NoError(t, err)
	require.Len(t, ds.Locations, 1)
	assert.Equal(t, "Tránsito", ds.Locations[0].Name)
}

func TestLoadDir_ErroresReportanLinea(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LocationsFile, "id,name,usage\n1,Bodega,deposito\n")

	_, err := LoadDir(dir, CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locations.csv")
	assert.Contains(t, err.Error(), "línea 2")
}

func TestLoadDir_CantidadInvalida(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LocationsFile, "id,name,usage\n")
	writeFile(t, dir, ProductsFile, "id,name,standard_price\n")
	writeFile(t, dir, MovesFile, "id,product_id,location_id,location_dest_id,quantity,price_unit,date,state\n1,1,1,2,diez,0,2024-01-01,confirmed\n")

	_, err := LoadDir(dir, CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
}
