package engine

import "github.com/piwi3910/HojaMaestra/internal/model"

var palletTriggers = map[model.FieldKey]bool{
	model.KeyPcsPack:      true,
	model.KeyPacksLayer:   true,
	model.KeyLayersPallet: true,
}

var containerTriggers = map[model.FieldKey]bool{
	model.KeyTotalPcs:    true,
	model.KeyPalletsCont: true,
}

var thousands = model.WriteOptions{ThousandsSeparator: true}

// shippingPass derives pieces per pallet from the packing fields and pieces
// per container from pieces per pallet. A pallet change always cascades to
// the container total.
func (e *Engine) shippingPass(changed model.FieldKey, d *Derived) {
	if changed == "" || palletTriggers[changed] {
		pcs := e.num(model.KeyPcsPack)
		packs := e.num(model.KeyPacksLayer)
		layers := e.num(model.KeyLayersPallet)
		if pcs > 0 && packs > 0 && layers > 0 {
			d.TotalPcs = pcs * packs * layers
			e.fields.Write(model.KeyTotalPcs, model.FormatNumber(d.TotalPcs), thousands)
		} else if changed != "" {
			return
		}
	}

	total := e.num(model.KeyTotalPcs)
	pallets := e.num(model.KeyPalletsCont)
	if total > 0 && pallets > 0 {
		d.TotalPcs = total
		d.PcsCont = total * pallets
		e.fields.Write(model.KeyPcsCont, model.FormatNumber(d.PcsCont), thousands)
	}
}

// PalletLoad describes how many pieces fit on one pallet and one container.
type PalletLoad struct {
	PiecesPerPallet    float64
	PiecesPerContainer float64
}

// ComputePalletLoad is the pure form of the shipping derivation.
func ComputePalletLoad(pcsPack, packsLayer, layersPallet, palletsCont float64) PalletLoad {
	var l PalletLoad
	if pcsPack > 0 && packsLayer > 0 && layersPallet > 0 {
		l.PiecesPerPallet = pcsPack * packsLayer * layersPallet
	}
	if l.PiecesPerPallet > 0 && palletsCont > 0 {
		l.PiecesPerContainer = l.PiecesPerPallet * palletsCont
	}
	return l
}

// LayersForHeight returns how many layers of the given height (mm) fit in
// the standard pallet height (cm), leaving room for the pallet base.
func LayersForHeight(p model.Palletizing, layerHeightMm, baseHeightMm float64) int {
	if layerHeightMm <= 0 || p.StandardHeightCm <= 0 {
		return 0
	}
	usable := p.StandardHeightCm*10 - baseHeightMm
	if usable <= 0 {
		return 0
	}
	return int(usable / layerHeightMm)
}
