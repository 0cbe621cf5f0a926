package backup

import "encoding/hex"

// backupKeyBagHex is the BackupKeyBag value written into Manifest.plist. The
// restore tool requires a structurally valid key bag even for unencrypted
// archives; the bytes are a fixed TLV blob (VERS, TYPE, UUID, HMCK, WRAP,
// SALT, ITER, then three class entries) and must be copied as-is.
const backupKeyBagHex = "" +
	"5645525300000004000000035459504500000004000000015555494400000010" +
	"25cbb06ce5345f142740785079ddc69c484d434b00000028e834b97cbc93dd3e" +
	"a2685ac1cc7daaed3f1fec16a59305d95bb51ef5f94716027ec7f857ccba305a" +
	"57524150000000040000000053414c54000000142bc990059473448e6ebd442a" +
	"a16bfaa0567ac03d495445520000000400002710555549440000001006279f98" +
	"9150442e0a0f1d3a92bdc505434c415300000004000000015752415000000004" +
	"000000024b545950000000040000000057504b59000000286bbe240369eff128" +
	"7eb7fe5f4da6d3d53ec1544cf29ec1d8e6fbae44c4aa867b0bbb576142c39a4d" +
	"5555494400000010e18bbdff27cbf9ff067ce6f20cfa3001434c415300000004" +
	"000000025752415000000004000000024b545950000000040000000057504b59" +
	"00000028f091a08bf2b559f87974d1e68e90e3a5413c133825e27c0832c92726" +
	"d9c9e790bc627e208b87cea855554944000000109d972ae52e6ea22891746977" +
	"b81c2389434c415300000004000000035752415000000004000000024b545950" +
	"000000040000000057504b59000000286e4adf28fe1034c4e27c364ae5c39086" +
	"2de19d9b72fbf29d3bc7dbb5c27d0be93c9e84c75dd73565"

// BackupKeyBag returns a fresh copy of the fixed key bag.
func BackupKeyBag() []byte {
	b, err := hex.DecodeString(backupKeyBagHex)
	if err != nil {
		panic("backup: malformed key bag constant: " + err.Error())
	}
	return b
}
