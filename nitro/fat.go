/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  fat.go - File Allocation Table dels cartutxos DS. Cada entrada són
 *           dos u32: offset inicial i offset final (exclusiu) dins de
 *           la imatge.
 */

package nitro

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

type FAT_Entry struct {

  Start int64
  End   int64

}


/************/
/* FUNCIONS */
/************/

func parseFAT( acc utils.Accessor, table NDS_Table ) ([]FAT_Entry,error) {

  buf:= make([]byte,table.Size)
  if err:= acc.Read ( buf, table.Offset ); err != nil {
    return nil,fmt.Errorf ( "Error while reading NDS FAT: %w", err )
  }

  count:= int(table.Size/8)
  ret:= make([]FAT_Entry,count)
  for i:= 0; i < count; i++ {
    ret[i].Start= int64(readU32 ( buf, i*8 ))
    ret[i].End= int64(readU32 ( buf, i*8+4 ))
    if ret[i].End < ret[i].Start || ret[i].End > acc.Len () {
      return nil,fmt.Errorf ( "Error while reading NDS FAT: entry %d"+
        " ([%d,%d[) is not a valid segment: %w",
        i, ret[i].Start, ret[i].End, utils.ErrInvalidFormat )
    }
  }

  return ret,nil

} // end parseFAT
