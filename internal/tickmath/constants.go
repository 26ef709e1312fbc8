package tickmath

import "math/big"

// Q96 multipliers for positive ticks, indexed by bit 1 through 18.
var (
	positiveRatioOdd  = mustBig("79232123823359799118286999567")
	positiveRatioEven = mustBig("79228162514264337593543950336")

	positiveMultipliers = []*big.Int{
		mustBig("79236085330515764027303304731"),
		mustBig("79244008939048815603706035061"),
		mustBig("79259858533276714757314932305"),
		mustBig("79291567232598584799939703904"),
		mustBig("79355022692464371645785046466"),
		mustBig("79482085999252804386437311141"),
		mustBig("79736823300114093921829183326"),
		mustBig("80248749790819932309965073892"),
		mustBig("81282483887344747381513967011"),
		mustBig("83390072131320151908154831281"),
		mustBig("87770609709833776024991924138"),
		mustBig("97234110755111693312479820773"),
		mustBig("119332217159966728226237229890"),
		mustBig("179736315981702064433883588727"),
		mustBig("407748233172238350107850275304"),
		mustBig("2098478828474011932436660412517"),
		mustBig("55581415166113811149459800483533"),
		mustBig("38992368544603139932233054999993551"),
	}
)

// Q64 multipliers for negative ticks, indexed the same way.
var (
	negativeRatioOdd  = mustBig("18445821805675392311")
	negativeRatioEven = mustBig("18446744073709551616")

	negativeMultipliers = []*big.Int{
		mustBig("18444899583751176498"),
		mustBig("18443055278223354162"),
		mustBig("18439367220385604838"),
		mustBig("18431993317065449817"),
		mustBig("18417254355718160513"),
		mustBig("18387811781193591352"),
		mustBig("18329067761203520168"),
		mustBig("18212142134806087854"),
		mustBig("17980523815641551639"),
		mustBig("17526086738831147013"),
		mustBig("16651378430235024244"),
		mustBig("15030750278693429944"),
		mustBig("12247334978882834399"),
		mustBig("8131365268884726200"),
		mustBig("3584323654723342297"),
		mustBig("696457651847595233"),
		mustBig("26294789957452057"),
		mustBig("37481735321082"),
	}
)
