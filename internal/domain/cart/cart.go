// Package cart modela el carrito de venta como un valor inmutable: cada operación
// devuelve un carrito nuevo y deja intacto el receptor. El stock no se valida aquí;
// solo el motor de ventas lo verifica contra la base de datos al registrar la venta.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Line línea del carrito. UnitPrice cero significa "usar el precio del catálogo".
type Line struct {
	ProductID string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal Quantity × UnitPrice.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart conjunto ordenado de líneas, una por producto.
type Cart struct {
	lines []Line
}

// New devuelve un carrito vacío.
func New() Cart { return Cart{} }

// FromLines construye un carrito agregando cada línea con Add (fusiona duplicados).
func FromLines(lines ...Line) (Cart, error) {
	c := New()
	for _, l := range lines {
		var err error
		if c, err = c.Add(l.ProductID, l.UnitPrice, l.Quantity); err != nil {
			return Cart{}, err
		}
	}
	return c, nil
}

// Add agrega qty unidades del producto. Si ya existe, suma cantidades;
// el precio debe coincidir con el de la línea existente.
func (c Cart) Add(productID string, unitPrice decimal.Decimal, qty int) (Cart, error) {
	if productID == "" {
		return c, domain.NewValidationError("product_id", "es requerido")
	}
	if qty <= 0 {
		return c, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if unitPrice.IsNegative() {
		return c, domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	if i := c.index(productID); i >= 0 {
		if !c.lines[i].UnitPrice.Equal(unitPrice) {
			return c, domain.NewValidationError("unit_price", "precio distinto para el mismo producto "+productID)
		}
		out := c.clone()
		out.lines[i].Quantity += qty
		return out, nil
	}
	out := c.clone()
	out.lines = append(out.lines, Line{ProductID: productID, UnitPrice: unitPrice, Quantity: qty})
	return out, nil
}

// Remove quita el producto del carrito. Si no existe devuelve el mismo contenido.
func (c Cart) Remove(productID string) Cart {
	out := Cart{lines: make([]Line, 0, len(c.lines))}
	for _, l := range c.lines {
		if l.ProductID != productID {
			out.lines = append(out.lines, l)
		}
	}
	return out
}

// Adjust suma delta (positivo o negativo) a la cantidad del producto.
// La cantidad resultante nunca puede quedar por debajo de 1; para quitar la línea use Remove.
func (c Cart) Adjust(productID string, delta int) (Cart, error) {
	i := c.index(productID)
	if i < 0 {
		return c, domain.NewValidationError("product_id", "no está en el carrito")
	}
	if c.lines[i].Quantity+delta < 1 {
		return c, domain.NewValidationError("quantity", "la cantidad mínima es 1")
	}
	out := c.clone()
	out.lines[i].Quantity += delta
	return out, nil
}

// Lines copia de las líneas en orden de inserción.
func (c Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Len número de productos distintos.
func (c Cart) Len() int { return len(c.lines) }

// IsEmpty indica si no hay líneas.
func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Total Σ Quantity × UnitPrice.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// WithPrice devuelve un carrito con el precio unitario del producto reemplazado.
func (c Cart) WithPrice(productID string, unitPrice decimal.Decimal) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	out := c.clone()
	out.lines[i].UnitPrice = unitPrice
	return out
}

func (c Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	return Cart{lines: append(make([]Line, 0, len(c.lines)+1), c.lines...)}
}
